package controller

import (
	"pdf_quiz_backend/internal/service"
	"pdf_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	MaxUploadBytes    int64
}

func NewAssignmentController(assignmentService *service.AssignmentService, maxUploadBytes int64) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService, MaxUploadBytes: maxUploadBytes}
}

// Create godoc
// @Summary 为用户分配测验
// @Description 上传PDF生成 <用户ID>_quiz.csv 并创建分配记录
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param pdf_file formData file true "PDF 文件"
// @Param user_id formData int true "用户ID"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 502 {object} util.Response "提取或生成失败"
// @Router /api/admin/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	userID, ok := util.ParseID(ctx.PostForm("user_id"))
	if !ok {
		util.BadRequest(ctx, "invalid user_id")
		return
	}
	filename, data, err := readUpload(ctx, "pdf_file", c.MaxUploadBytes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, res, err := c.AssignmentService.Create(ctx.Request.Context(), userID, filename, data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"assignment": a, "generation": res})
}

// Dashboard godoc
// @Summary 仪表盘
// @Description 管理员返回 isAdmin，普通用户返回其分配
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardView}
// @Router /api/dashboard [get]
func (c *AssignmentController) Dashboard(ctx *gin.Context) {
	view, err := c.AssignmentService.Dashboard(util.GetUserFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// TakeTest godoc
// @Summary 获取分配的测验
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配ID"
// @Success 200 {object} util.Response{data=service.TestView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/test [get]
func (c *AssignmentController) TakeTest(ctx *gin.Context) {
	claims := claimsOrAbort(ctx)
	if claims == nil {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.AssignmentService.TakeTest(claims.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 提交分配的测验
// @Tags 分配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配ID"
// @Param body body SubmitAnswersRequest true "答案"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := claimsOrAbort(ctx)
	if claims == nil {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AssignmentService.Submit(claims.UserID, id, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Attempt godoc
// @Summary 查看已提交的结果
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配ID"
// @Param attemptId path int true "提交ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/assignments/{id}/attempts/{attemptId} [get]
func (c *AssignmentController) Attempt(ctx *gin.Context) {
	claims := claimsOrAbort(ctx)
	if claims == nil {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}

	res, err := c.AssignmentService.GetAttempt(claims.UserID, id, attemptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
