package controller

import (
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Overview godoc
// @Summary Study progress overview
// @Description Aggregates document, quiz, and flashcard activity for the current user
// @Tags progress
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressOverview} "Success"
// @Router /api/progress [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	overview, err := c.ProgressService.Overview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
