package controller

import (
	"errors"
	"strconv"
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	FlashcardService *service.FlashcardService
}

func NewFlashcardController(flashcardService *service.FlashcardService) *FlashcardController {
	return &FlashcardController{FlashcardService: flashcardService}
}

// swagger:model GenerateFlashcardsRequest
type GenerateFlashcardsRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Count      int    `json:"count"`
}

// Generate godoc
// @Summary Generate flashcards from a document
// @Tags flashcards
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateFlashcardsRequest true "Generation parameters"
// @Success 201 {object} util.Response{data=model.FlashcardSet} "Created"
// @Failure 400 {object} util.Response "Document not ready"
// @Failure 404 {object} util.Response "Document not found"
// @Failure 502 {object} util.Response "Generation failed"
// @Router /api/flashcards [post]
func (c *FlashcardController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req GenerateFlashcardsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, err := c.FlashcardService.Generate(ctx.Request.Context(), claims.UserID, req.DocumentID, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(ctx, "Document not found")
		case errors.Is(err, util.ErrDocumentNotReady):
			util.BadRequest(ctx, "Document text is not available yet")
		case errors.Is(err, util.ErrGenerationFailed):
			util.LogDependencyError(ctx, err)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, set)
}

// List godoc
// @Summary List flashcard sets for a document
// @Tags flashcards
// @Produce  json
// @Security ApiKeyAuth
// @Param   documentId query string true "Document ID"
// @Success 200 {object} util.Response{data=[]model.FlashcardSet} "Success"
// @Router /api/flashcards [get]
func (c *FlashcardController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	documentID := ctx.Query("documentId")
	if documentID == "" {
		util.BadRequest(ctx, "documentId is required")
		return
	}

	sets, err := c.FlashcardService.List(claims.UserID, documentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sets)
}

func (c *FlashcardController) cardIndex(ctx *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "Card index must be a number")
		return 0, false
	}
	return idx, true
}

// Review godoc
// @Summary Record a card review
// @Tags flashcards
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Set ID"
// @Param   index path int true "Card index"
// @Success 200 {object} util.Response{data=model.Flashcard} "Success"
// @Failure 404 {object} util.Response "Set or card not found"
// @Router /api/flashcards/{id}/cards/{index}/review [post]
func (c *FlashcardController) Review(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	idx, ok := c.cardIndex(ctx)
	if !ok {
		return
	}

	card, err := c.FlashcardService.Review(claims.UserID, ctx.Param("id"), idx)
	if err != nil {
		if errors.Is(err, util.ErrFlashcardSetNotFound) {
			util.NotFound(ctx, "Flashcard not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, card)
}

// ToggleStar godoc
// @Summary Star or unstar a card
// @Tags flashcards
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Set ID"
// @Param   index path int true "Card index"
// @Success 200 {object} util.Response{data=model.Flashcard} "Success"
// @Failure 404 {object} util.Response "Set or card not found"
// @Router /api/flashcards/{id}/cards/{index}/star [post]
func (c *FlashcardController) ToggleStar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	idx, ok := c.cardIndex(ctx)
	if !ok {
		return
	}

	card, err := c.FlashcardService.ToggleStar(claims.UserID, ctx.Param("id"), idx)
	if err != nil {
		if errors.Is(err, util.ErrFlashcardSetNotFound) {
			util.NotFound(ctx, "Flashcard not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, card)
}

// Delete godoc
// @Summary Delete a flashcard set
// @Tags flashcards
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Set ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Set not found"
// @Router /api/flashcards/{id} [delete]
func (c *FlashcardController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	if err := c.FlashcardService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrFlashcardSetNotFound) {
			util.NotFound(ctx, "Flashcard set not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMessage(ctx, "Flashcard set deleted")
}
