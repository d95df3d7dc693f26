package service

import (
	"context"
	"errors"
	"pdf_quiz_backend/internal/model"
	"pdf_quiz_backend/internal/quiz"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentStore persists assignments and the attempts made on them.
type AssignmentStore interface {
	Create(a *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	FindByUser(userID uint) ([]model.Assignment, error)
	CreateAttempt(attempt *model.QuizAttempt) error
	FindAttempt(assignmentID, attemptID uint) (*model.QuizAttempt, error)
}

// swagger:model DashboardView
type DashboardView struct {
	IsAdmin     bool               `json:"isAdmin"`
	Username    string             `json:"username"`
	Assignments []model.Assignment `json:"assignments"`
}

// swagger:model TestView
type TestView struct {
	Assignment *model.Assignment `json:"assignment"`
	Questions  []QuizQuestion    `json:"questions"`
}

// swagger:model AttemptResult
type AttemptResult struct {
	AttemptID    uint              `json:"attemptId"`
	AssignmentID uint              `json:"assignmentId"`
	Result       *quiz.ScoreResult `json:"result"`
}

type AssignmentService struct {
	Assignments AssignmentStore
	Users       UserStore
	Quizzes     *QuizService
}

func NewAssignmentService(assignments AssignmentStore, users UserStore, quizzes *QuizService) *AssignmentService {
	return &AssignmentService{
		Assignments: assignments,
		Users:       users,
		Quizzes:     quizzes,
	}
}

// Create generates a quiz for userID from the uploaded PDF and assigns it.
func (s *AssignmentService) Create(ctx context.Context, userID uint, filename string, data []byte) (*model.Assignment, *GenerateResult, error) {
	if _, err := s.Users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	res, err := s.Quizzes.GenerateForUser(ctx, userID, filename, data)
	if err != nil {
		return nil, nil, err
	}

	a := &model.Assignment{PDFPath: res.PDFPath, QuizPath: res.QuizPath, UserID: userID}
	if err := s.Assignments.Create(a); err != nil {
		return nil, nil, err
	}
	logger.Log.Info("Assignment created", zap.Uint("assignment_id", a.ID), zap.Uint("user_id", userID))
	return a, res, nil
}

func (s *AssignmentService) Dashboard(claims *util.Claims) (*DashboardView, error) {
	if claims == nil {
		return nil, util.ErrUnauthorized
	}
	view := &DashboardView{IsAdmin: claims.IsAdmin, Username: claims.Username}
	if claims.IsAdmin {
		return view, nil
	}
	as, err := s.Assignments.FindByUser(claims.UserID)
	if err != nil {
		return nil, err
	}
	view.Assignments = as
	return view, nil
}

// owned loads an assignment and checks that userID may take it.
func (s *AssignmentService) owned(userID, assignmentID uint) (*model.Assignment, error) {
	a, err := s.Assignments.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return a, nil
}

func (s *AssignmentService) TakeTest(userID, assignmentID uint) (*TestView, error) {
	a, err := s.owned(userID, assignmentID)
	if err != nil {
		return nil, err
	}
	questions, err := LoadQuestionsAt(a.QuizPath)
	if err != nil {
		return nil, err
	}
	return &TestView{Assignment: a, Questions: questions}, nil
}

// Submit scores answers and stores them so the result can be shown again.
func (s *AssignmentService) Submit(userID, assignmentID uint, answers map[string]string) (*AttemptResult, error) {
	a, err := s.owned(userID, assignmentID)
	if err != nil {
		return nil, err
	}
	result, err := ScoreQuizAt(a.QuizPath, answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		AssignmentID: a.ID,
		UserID:       userID,
		Correct:      result.Correct,
		Total:        result.Total,
		Answers:      model.Answers(answers),
	}
	if err := s.Assignments.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return &AttemptResult{AttemptID: attempt.ID, AssignmentID: a.ID, Result: result}, nil
}

// GetAttempt rebuilds the result view of a stored attempt from its saved answers.
func (s *AssignmentService) GetAttempt(userID, assignmentID, attemptID uint) (*AttemptResult, error) {
	a, err := s.owned(userID, assignmentID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.Assignments.FindAttempt(a.ID, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	rows, err := quiz.ReadQuizFile(a.QuizPath)
	if err != nil {
		return nil, err
	}
	result := quiz.Score(rows, attempt.Answers)
	return &AttemptResult{AttemptID: attempt.ID, AssignmentID: a.ID, Result: &result}, nil
}
