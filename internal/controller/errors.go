package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"pdf_quiz_backend/internal/quiz"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEmailRegistered), errors.Is(err, util.ErrUsernameTaken):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials),
		errors.Is(err, util.ErrUnauthorized),
		errors.Is(err, util.ErrTokenRevoked):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrDocumentNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, quiz.ErrQuizNotFound):
		util.NotFound(ctx, "quiz not found")
	case errors.Is(err, util.ErrInvalidQuizName), errors.Is(err, util.ErrInvalidFileType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUploadFailed):
		// 不向用户暴露具体原因
		logger.Log.Warn("Upload pipeline failed", zap.Error(err))
		util.BadGateway(ctx, util.ErrUploadFailed.Error())
	case errors.Is(err, util.ErrGeneratorNotReady):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// readUpload reads the multipart file in field, capped at maxBytes.
func readUpload(ctx *gin.Context, field string, maxBytes int64) (string, []byte, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("no file part %q", field)
	}
	if fh.Filename == "" {
		return "", nil, errors.New("no selected file")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", nil, fmt.Errorf("file exceeds %d bytes", maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

func claimsOrAbort(ctx *gin.Context) *util.Claims {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
	}
	return claims
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}
