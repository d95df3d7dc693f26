package repository

import (
	"pdf_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

// FindByUser lists a user's assignments, oldest first.
func (r *AssignmentRepository) FindByUser(userID uint) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.Where("user_id = ?", userID).Order("id asc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AssignmentRepository) FindAttempt(assignmentID, attemptID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("assignment_id = ?", assignmentID).First(&attempt, attemptID).Error
	return &attempt, err
}
