package controller

import (
	"errors"
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService       *service.AIService
	DocumentService *service.DocumentService
}

func NewAIController(aiService *service.AIService, documentService *service.DocumentService) *AIController {
	return &AIController{
		AIService:       aiService,
		DocumentService: documentService,
	}
}

func (c *AIController) documentText(ctx *gin.Context, userID uint, documentID string) (string, string, bool) {
	doc, err := c.DocumentService.Get(userID, documentID)
	if err != nil {
		if errors.Is(err, util.ErrDocumentNotFound) {
			util.NotFound(ctx, "Document not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return "", "", false
	}
	if doc.ExtractedText == "" {
		util.BadRequest(ctx, "Document text is not available yet")
		return "", "", false
	}
	return doc.ID, doc.ExtractedText, true
}

// Summarize godoc
// @Summary Summarize a document
// @Description Returns a cached summary when one exists, otherwise generates one
// @Tags ai
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "Document not found"
// @Failure 502 {object} util.Response "Generation failed"
// @Router /api/ai/documents/{id}/summary [get]
func (c *AIController) Summarize(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	docID, text, ok := c.documentText(ctx, claims.UserID, ctx.Param("id"))
	if !ok {
		return
	}

	summary, err := c.AIService.Summarize(ctx.Request.Context(), docID, text)
	if err != nil {
		util.LogDependencyError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"summary": summary})
}

// swagger:model ChatRequest
type ChatRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Question   string `json:"question" binding:"required"`
}

// Chat godoc
// @Summary Ask a question about a document
// @Tags ai
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "Question"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "Document not found"
// @Failure 502 {object} util.Response "Generation failed"
// @Router /api/ai/chat [post]
func (c *AIController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	_, text, ok := c.documentText(ctx, claims.UserID, req.DocumentID)
	if !ok {
		return
	}

	answer, err := c.AIService.Chat(ctx.Request.Context(), req.Question, text)
	if err != nil {
		util.LogDependencyError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"answer": answer})
}

// swagger:model ExplainRequest
type ExplainRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Concept    string `json:"concept" binding:"required"`
}

// Explain godoc
// @Summary Explain a concept from a document
// @Tags ai
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExplainRequest true "Concept"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "Document not found"
// @Failure 502 {object} util.Response "Generation failed"
// @Router /api/ai/explain [post]
func (c *AIController) Explain(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	var req ExplainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	_, text, ok := c.documentText(ctx, claims.UserID, req.DocumentID)
	if !ok {
		return
	}

	explanation, err := c.AIService.Explain(ctx.Request.Context(), req.Concept, text)
	if err != nil {
		util.LogDependencyError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"explanation": explanation})
}
