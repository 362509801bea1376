package controller

import (
	"errors"
	"study_aid_backend/internal/service"
	"study_aid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// Upload godoc
// @Summary Upload a PDF document
// @Description Stores the file, extracts its text, and registers the document
// @Tags documents
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "PDF file"
// @Param   title formData string false "Document title"
// @Success 201 {object} util.Response{data=model.Document} "Created"
// @Failure 400 {object} util.Response "Invalid file"
// @Failure 500 {object} util.Response "Internal server error"
// @Router /api/documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	doc, err := c.DocumentService.Upload(ctx.Request.Context(), claims.UserID, ctx.PostForm("title"), file)
	if err != nil {
		if errors.Is(err, util.ErrTextExtraction) {
			util.BadRequest(ctx, "Could not extract text from the file")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, doc)
}

// List godoc
// @Summary List documents
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Document} "Success"
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	docs, err := c.DocumentService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, docs)
}

// Get godoc
// @Summary Get one document
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response{data=model.Document} "Success"
// @Failure 404 {object} util.Response "Document not found"
// @Router /api/documents/{id} [get]
func (c *DocumentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	doc, err := c.DocumentService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrDocumentNotFound) {
			util.NotFound(ctx, "Document not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, doc)
}

// Delete godoc
// @Summary Delete a document
// @Description Removes the record and its stored file
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Document not found"
// @Router /api/documents/{id} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Not authorized")
		return
	}

	if err := c.DocumentService.Delete(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrDocumentNotFound) {
			util.NotFound(ctx, "Document not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMessage(ctx, "Document deleted")
}
