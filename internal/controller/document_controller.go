package controller

import (
	"pdf_quiz_backend/internal/service"
	"pdf_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	QuizService *service.QuizService
}

func NewDocumentController(quizService *service.QuizService) *DocumentController {
	return &DocumentController{QuizService: quizService}
}

// Show godoc
// @Summary 查看PDF提取文本
// @Tags 文档
// @Produce json
// @Param id path int true "文档ID"
// @Success 200 {object} util.Response{data=model.PDFDocument}
// @Failure 404 {object} util.Response
// @Router /api/documents/{id} [get]
func (c *DocumentController) Show(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	doc, err := c.QuizService.GetDocument(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}
