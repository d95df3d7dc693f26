package service

import (
	"context"
	"errors"
	"path/filepath"
	"pdf_quiz_backend/internal/model"
	"pdf_quiz_backend/internal/repository"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// minimal bytes that sniff as application/pdf
var fakePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

const twoGoodOneShort = `What is the capital of France?
a) London
b) Paris
c) Rome
d) Berlin
The correct answer is b because it is the capital

Which planet is the largest?
a) Mars
b) Venus
c) Jupiter
d) Mercury
The correct answer is c Jupiter has the greatest mass.

Dangling question?
a) one
b) two
c) three`

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte, pr PageRange) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	out   string
	err   error
	calls int
	input string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, text string) (string, error) {
	f.calls++
	f.input = text
	return f.out, f.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.User{}, &model.Assignment{}, &model.PDFDocument{}, &model.QuizAttempt{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	dir       string
	extractor *fakeExtractor
	generator *fakeGenerator
	quizzes   *QuizService
	auth      *AuthService
	users     *repository.UserRepository
	assign    *AssignmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	dir := t.TempDir()

	f := &fixture{
		db:        db,
		dir:       dir,
		extractor: &fakeExtractor{text: "Paris is the capital of France."},
		generator: &fakeGenerator{out: twoGoodOneShort},
		users:     repository.NewUserRepository(db),
	}
	storage := &StorageService{Provider: &LocalStorageProvider{Dir: filepath.Join(dir, "pdfs")}}
	f.quizzes = NewQuizService(f.extractor, f.generator, storage, repository.NewPDFDocumentRepository(db), filepath.Join(dir, "quizzes"))
	f.auth = NewAuthService(f.users, BcryptHasher{Cost: bcrypt.MinCost}, NewMemoryTokenStore(), testJWT)
	f.assign = NewAssignmentService(repository.NewAssignmentRepository(db), f.users, f.quizzes)
	return f
}

func (f *fixture) mustRegister(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := f.auth.Register(username, username+"@example.com", "pw-"+username)
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	return u
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secret" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash looks unsalted: %q", hash)
	}
	if !h.Verify(hash, "secret") || h.Verify(hash, "wrong") {
		t.Fatal("verify mismatch")
	}
	other, _ := h.Hash("secret")
	if other == hash {
		t.Fatal("two hashes of the same password should differ by salt")
	}
}

func TestSentinelWrapping(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = errors.New("boom")
	_, err := f.quizzes.GenerateFromUpload(context.Background(), "notes.pdf", fakePDF, "notes.pdf_quiz.csv")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("cause should be kept in the message: %v", err)
	}
}
