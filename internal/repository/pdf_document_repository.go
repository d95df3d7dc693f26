package repository

import (
	"pdf_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type PDFDocumentRepository struct {
	DB *gorm.DB
}

func NewPDFDocumentRepository(db *gorm.DB) *PDFDocumentRepository {
	return &PDFDocumentRepository{DB: db}
}

func (r *PDFDocumentRepository) Create(doc *model.PDFDocument) error {
	return r.DB.Create(doc).Error
}

func (r *PDFDocumentRepository) FindByID(id uint) (*model.PDFDocument, error) {
	var doc model.PDFDocument
	err := r.DB.First(&doc, id).Error
	return &doc, err
}
