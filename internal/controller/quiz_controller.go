package controller

import (
	"errors"
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
}

// Generate godoc
// @Summary Generate a quiz from a document
// @Description Builds a multiple-choice quiz from the document's extracted text
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateQuizRequest true "Generation parameters"
// @Success 201 {object} util.Response{data=model.Quiz} "Created"
// @Failure 400 {object} util.Response "Document not ready"
// @Failure 404 {object} util.Response "Document not found"
// @Failure 502 {object} util.Response "Generation failed"
// @Router /api/quizzes [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Generate(ctx.Request.Context(), claims.UserID, req.DocumentID, req.Title, req.Count)
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

	util.Created(ctx, quiz)
}

// List godoc
// @Summary List quizzes for a document
// @Tags quizzes
// @Produce  json
// @Security ApiKeyAuth
// @Param   documentId query string true "Document ID"
// @Success 200 {object} util.Response{data=[]service.QuizSummary} "Success"
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
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

	summaries, err := c.QuizService.List(claims.UserID, documentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summaries)
}

// Get godoc
// @Summary Get one quiz
// @Tags quizzes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=model.Quiz} "Success"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	quiz, err := c.QuizService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, "Quiz not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Grades the answers, records the score, and marks the quiz completed
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Quiz ID"
// @Param   body body SubmitQuizRequest true "Answers"
// @Success 200 {object} util.Response{data=service.SubmitResult} "Success"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(claims.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, "Quiz not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Results godoc
// @Summary Get quiz results
// @Description Returns every question merged with the recorded answer
// @Tags quizzes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response{data=service.QuizResults} "Success"
// @Failure 400 {object} util.Response "Quiz not completed yet"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id}/results [get]
func (c *QuizController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	results, err := c.QuizService.Results(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, "Quiz not found")
		case errors.Is(err, util.ErrQuizNotCompleted):
			util.BadRequest(ctx, "Quiz has not been completed yet")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, results)
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Quiz ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	if err := c.QuizService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, "Quiz not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMessage(ctx, "Quiz deleted")
}
