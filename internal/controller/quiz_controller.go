package controller

import (
	"pdf_quiz_backend/internal/service"
	"pdf_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	MaxUploadBytes int64
}

func NewQuizController(quizService *service.QuizService, maxUploadBytes int64) *QuizController {
	return &QuizController{QuizService: quizService, MaxUploadBytes: maxUploadBytes}
}

// SubmitAnswersRequest maps question text to the chosen answer text.
// swagger:model SubmitAnswersRequest
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

// Upload godoc
// @Summary 上传PDF并生成测验
// @Description 测验文件名为 <文件名>_quiz.csv
// @Tags 测验
// @Accept multipart/form-data
// @Produce json
// @Param pdf_file formData file true "PDF 文件"
// @Success 201 {object} util.Response{data=service.GenerateResult}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response "提取或生成失败"
// @Router /api/quizzes [post]
func (c *QuizController) Upload(ctx *gin.Context) {
	filename, data, err := readUpload(ctx, "pdf_file", c.MaxUploadBytes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.QuizService.GenerateFromUpload(ctx.Request.Context(), filename, data, service.QuizNameForUpload(filename))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// Show godoc
// @Summary 显示测验题目
// @Tags 测验
// @Produce json
// @Param name path string true "测验文件名"
// @Success 200 {object} util.Response{data=[]service.QuizQuestion}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{name} [get]
func (c *QuizController) Show(ctx *gin.Context) {
	questions, err := c.QuizService.LoadQuestions(ctx.Param("name"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Submit godoc
// @Summary 提交答案并评分
// @Tags 测验
// @Accept json
// @Produce json
// @Param name path string true "测验文件名"
// @Param body body SubmitAnswersRequest true "答案"
// @Success 200 {object} util.Response{data=quiz.ScoreResult}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{name}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.QuizService.ScoreQuiz(ctx.Param("name"), req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// AnswerKey godoc
// @Summary 测验答案
// @Tags 测验
// @Produce json
// @Param name path string true "测验文件名"
// @Success 200 {object} util.Response{data=[]service.AnswerKeyEntry}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{name}/answer-key [get]
func (c *QuizController) AnswerKey(ctx *gin.Context) {
	key, err := c.QuizService.AnswerKey(ctx.Param("name"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, key)
}
