package model

// Assignment links an uploaded PDF and its generated quiz file to a user.
// swagger:model Assignment
type Assignment struct {
	BaseModel
	PDFPath  string `gorm:"size:255;not null" json:"pdfPath"`
	QuizPath string `gorm:"size:255;not null" json:"quizPath"`
	UserID   uint   `gorm:"index;not null" json:"userId"`
}

func (Assignment) TableName() string {
	return "assignments"
}
