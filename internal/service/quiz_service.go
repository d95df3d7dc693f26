package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"pdf_quiz_backend/internal/model"
	"pdf_quiz_backend/internal/quiz"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"
	"pdf_quiz_backend/pkg/monitoring"
	"pdf_quiz_backend/pkg/tracing"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PDFStorage keeps the uploaded source document.
type PDFStorage interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}

// DocumentStore persists extracted PDF text.
type DocumentStore interface {
	Create(doc *model.PDFDocument) error
	FindByID(id uint) (*model.PDFDocument, error)
}

// QuizQuestion is a question as shown to the quiz taker.
// swagger:model QuizQuestion
type QuizQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

// AnswerKeyEntry is a question with its stored correct answer.
// swagger:model AnswerKeyEntry
type AnswerKeyEntry struct {
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// GenerateResult describes one finished upload.
// swagger:model GenerateResult
type GenerateResult struct {
	QuizName   string `json:"quizName"`
	QuizPath   string `json:"quizPath"`
	PDFPath    string `json:"pdfPath"`
	DocumentID uint   `json:"documentId"`
	Questions  int    `json:"questions"`
	Malformed  int    `json:"malformedBlocks"`
	Unmatched  int    `json:"unmatchedAnswers"`
}

type QuizService struct {
	Extractor TextExtractor
	Storage   PDFStorage
	Documents DocumentStore
	QuizDir   string

	mu        sync.RWMutex
	generator QuestionGenerator
}

func NewQuizService(extractor TextExtractor, generator QuestionGenerator, storage PDFStorage, documents DocumentStore, quizDir string) *QuizService {
	return &QuizService{
		Extractor: extractor,
		Storage:   storage,
		Documents: documents,
		QuizDir:   quizDir,
		generator: generator,
	}
}

// SetGenerator swaps the generator used by later uploads and returns the previous one.
func (s *QuizService) SetGenerator(g QuestionGenerator) QuestionGenerator {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.generator
	s.generator = g
	return old
}

func (s *QuizService) currentGenerator() QuestionGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

// SanitizeQuizName reduces name to a bare file name ending in .csv.
func SanitizeQuizName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", util.ErrInvalidQuizName
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name, nil
}

// QuizNameForUpload names the quiz after the uploaded file, e.g. notes.pdf -> notes.pdf_quiz.csv.
func QuizNameForUpload(filename string) string {
	return util.SafeBaseName(filename) + util.QuizSuffix
}

// QuizNameForUser names an assigned quiz after its user.
func QuizNameForUser(userID uint) string {
	return fmt.Sprintf("%d%s", userID, util.QuizSuffix)
}

// AssignedQuizPath is where a user's assigned quiz lives. Public quiz names cannot
// contain separators, so uploads never reach this directory.
func (s *QuizService) AssignedQuizPath(userID uint) string {
	return filepath.Join(s.QuizDir, util.AssignedQuizDir, QuizNameForUser(userID))
}

func (s *QuizService) quizPath(name string) (string, error) {
	clean, err := SanitizeQuizName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.QuizDir, clean), nil
}

// GenerateFromUpload runs store, extract, generate, parse and write for one uploaded PDF.
// Extraction and generator failures are reported as util.ErrUploadFailed.
func (s *QuizService) GenerateFromUpload(ctx context.Context, filename string, data []byte, quizName string) (*GenerateResult, error) {
	path, err := s.quizPath(quizName)
	if err != nil {
		return nil, err
	}
	return s.generateTo(ctx, filename, data, path)
}

// GenerateForUser is GenerateFromUpload for a quiz assigned to userID.
func (s *QuizService) GenerateForUser(ctx context.Context, userID uint, filename string, data []byte) (*GenerateResult, error) {
	return s.generateTo(ctx, filename, data, s.AssignedQuizPath(userID))
}

func (s *QuizService) generateTo(ctx context.Context, filename string, data []byte, path string) (*GenerateResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.GenerateFromUpload")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.path", path), attribute.Int("pdf.bytes", len(data)))

	res, err := s.generate(ctx, filename, data, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("quiz.questions", res.Questions))
	return res, nil
}

func (s *QuizService) generate(ctx context.Context, filename string, data []byte, path string) (*GenerateResult, error) {
	base := util.SafeBaseName(filename)
	if base == "" {
		return nil, util.ErrUploadFailed
	}

	mimeType, err := util.ValidateMimeType(bytes.NewReader(data), []string{util.MimePDF})
	if err != nil {
		logger.Log.Warn("Rejected upload", zap.String("file", base), zap.String("mime", mimeType))
		return nil, util.ErrInvalidFileType
	}

	pdfPath, err := s.Storage.Upload(ctx, base, bytes.NewReader(data), int64(len(data)), mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: store pdf: %v", util.ErrUploadFailed, err)
	}

	text, err := s.Extractor.ExtractText(ctx, data, PageRange{})
	if err != nil {
		logger.Log.Error("PDF extraction failed", zap.String("file", base), zap.Error(err))
		// 无法提取文本的文件不保留
		if derr := s.Storage.Delete(ctx, base); derr != nil {
			logger.Log.Warn("Failed to remove unreadable pdf", zap.String("file", base), zap.Error(derr))
		}
		return nil, fmt.Errorf("%w: %v", util.ErrUploadFailed, err)
	}

	doc := &model.PDFDocument{PDFPath: pdfPath, ExtractedText: text}
	if err := s.Documents.Create(doc); err != nil {
		return nil, fmt.Errorf("%w: save extracted text: %v", util.ErrUploadFailed, err)
	}

	gen := s.currentGenerator()
	if gen == nil {
		return nil, util.ErrGeneratorNotReady
	}
	raw, err := gen.Generate(ctx, text)
	if errors.Is(err, util.ErrGeneratorClosed) {
		// 配置重载在取到生成器之后替换了它，改用新的生成器
		if gen = s.currentGenerator(); gen == nil {
			return nil, util.ErrGeneratorNotReady
		}
		raw, err = gen.Generate(ctx, text)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrUploadFailed, err)
	}

	parsed := quiz.ParseQuestions(raw)
	monitoring.ObserveParse(len(parsed.Records), len(parsed.Failures), parsed.Unmatched)

	if err := quiz.WriteQuizFile(path, parsed.Records); err != nil {
		return nil, err
	}

	logger.Log.Info("Quiz generated",
		zap.String("pdf", pdfPath),
		zap.String("quiz", path),
		zap.Int("questions", len(parsed.Records)),
		zap.Int("malformed", len(parsed.Failures)),
		zap.Int("unmatched", parsed.Unmatched),
	)

	return &GenerateResult{
		QuizName:   filepath.Base(path),
		QuizPath:   path,
		PDFPath:    pdfPath,
		DocumentID: doc.ID,
		Questions:  len(parsed.Records),
		Malformed:  len(parsed.Failures),
		Unmatched:  parsed.Unmatched,
	}, nil
}

func (s *QuizService) LoadQuestions(name string) ([]QuizQuestion, error) {
	path, err := s.quizPath(name)
	if err != nil {
		return nil, err
	}
	return LoadQuestionsAt(path)
}

// LoadQuestionsAt reads the quiz at path without exposing answers.
func LoadQuestionsAt(path string) ([]QuizQuestion, error) {
	rows, err := quiz.ReadQuizFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]QuizQuestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, QuizQuestion{Question: row.Question(), Choices: row.Choices()})
	}
	return out, nil
}

func (s *QuizService) AnswerKey(name string) ([]AnswerKeyEntry, error) {
	path, err := s.quizPath(name)
	if err != nil {
		return nil, err
	}
	rows, err := quiz.ReadQuizFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]AnswerKeyEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, AnswerKeyEntry{
			Question:      row.Question(),
			Choices:       row.Choices(),
			CorrectAnswer: row.CorrectAnswer(),
		})
	}
	return out, nil
}

func (s *QuizService) ScoreQuiz(name string, selected map[string]string) (*quiz.ScoreResult, error) {
	path, err := s.quizPath(name)
	if err != nil {
		return nil, err
	}
	return ScoreQuizAt(path, selected)
}

// ScoreQuizAt scores selected against the quiz stored at path.
func ScoreQuizAt(path string, selected map[string]string) (*quiz.ScoreResult, error) {
	rows, err := quiz.ReadQuizFile(path)
	if err != nil {
		return nil, err
	}
	res := quiz.Score(rows, selected)
	monitoring.QuizzesScored.Inc()
	return &res, nil
}

func (s *QuizService) GetDocument(id uint) (*model.PDFDocument, error) {
	doc, err := s.Documents.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}
