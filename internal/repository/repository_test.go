package repository

import (
	"errors"
	"testing"

	"pdf_quiz_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestUserRepositoryLookups(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	u := &model.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byEmail, err := repo.FindByEmail("alice@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("FindByEmail = %+v, %v", byEmail, err)
	}
	byName, err := repo.FindByUsername("alice")
	if err != nil || byName.Email != "alice@example.com" {
		t.Fatalf("FindByUsername = %+v, %v", byName, err)
	}
	if _, err := repo.FindByEmail("nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	dup := &model.User{Username: "alice2", Email: "alice@example.com", Password: "hash"}
	if err := repo.Create(dup); err == nil {
		t.Fatal("duplicate email should violate unique index")
	}

	users, err := repo.List()
	if err != nil || len(users) != 1 {
		t.Fatalf("List = %d users, %v", len(users), err)
	}
}

func TestAssignmentRepositoryByUserAndAttempts(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssignmentRepository(db)

	for _, a := range []*model.Assignment{
		{PDFPath: "static/pdfs/a.pdf", QuizPath: "static/quizzes/2_quiz.csv", UserID: 2},
		{PDFPath: "static/pdfs/b.pdf", QuizPath: "static/quizzes/3_quiz.csv", UserID: 3},
		{PDFPath: "static/pdfs/c.pdf", QuizPath: "static/quizzes/2_quiz.csv", UserID: 2},
	} {
		if err := repo.Create(a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := repo.FindByUser(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].PDFPath != "static/pdfs/a.pdf" {
		t.Fatalf("FindByUser = %+v", mine)
	}

	attempt := &model.QuizAttempt{
		AssignmentID: mine[0].ID,
		UserID:       2,
		Correct:      1,
		Total:        2,
		Answers:      model.Answers{"Q1": "a) x"},
	}
	if err := repo.CreateAttempt(attempt); err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	got, err := repo.FindAttempt(mine[0].ID, attempt.ID)
	if err != nil {
		t.Fatalf("FindAttempt: %v", err)
	}
	if got.Answers["Q1"] != "a) x" || got.Correct != 1 {
		t.Fatalf("attempt = %+v", got)
	}
	if _, err := repo.FindAttempt(mine[1].ID, attempt.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("attempt under another assignment should not be found, got %v", err)
	}
}

func TestPDFDocumentRepository(t *testing.T) {
	repo := NewPDFDocumentRepository(newTestDB(t))
	doc := &model.PDFDocument{PDFPath: "static/pdfs/notes.pdf", ExtractedText: "page one\npage two"}
	if err := repo.Create(doc); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByID(doc.ID)
	if err != nil || got.ExtractedText != doc.ExtractedText {
		t.Fatalf("FindByID = %+v, %v", got, err)
	}
}
