package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Answers maps question text to the selected choice text.
type Answers map[string]string

func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *Answers) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("answers: unsupported column type")
	}
	return json.Unmarshal(data, a)
}

// QuizAttempt stores a scored submission so results can be shown again later.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	AssignmentID uint    `gorm:"index;not null" json:"assignmentId"`
	UserID       uint    `gorm:"index;not null" json:"userId"`
	Correct      int     `gorm:"not null" json:"correct"`
	Total        int     `gorm:"not null" json:"total"`
	Answers      Answers `gorm:"type:text" json:"answers"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
