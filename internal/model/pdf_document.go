package model

// PDFDocument keeps the text extracted from an uploaded PDF.
// swagger:model PDFDocument
type PDFDocument struct {
	BaseModel
	PDFPath       string `gorm:"size:255;not null" json:"pdfPath"`
	ExtractedText string `gorm:"type:text;not null" json:"extractedText"`
}

func (PDFDocument) TableName() string {
	return "pdf_documents"
}
