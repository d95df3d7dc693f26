package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRecords() []QuestionRecord {
	return []QuestionRecord{
		{
			Question:      "What is the capital of France?",
			Choices:       [4]string{"a) London", "b) Paris", "c) Rome", "d) Berlin"},
			CorrectAnswer: "b) Paris - because it is the capital",
			Placeholder:   Placeholder,
		},
		{
			Question:      `Which "quoted", comma-laden question?`,
			Choices:       [4]string{"a) one, two", "b) \"three\"", "c) four\nfive", "d) six"},
			CorrectAnswer: "a) one, two - commas survive",
			Placeholder:   Placeholder,
		},
	}
}

func TestWriteAndReadQuizFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "quiz.csv")
	records := sampleRecords()

	if err := WriteQuizFile(path, records); err != nil {
		t.Fatalf("WriteQuizFile: %v", err)
	}

	rows, err := ReadQuizFile(path)
	if err != nil {
		t.Fatalf("ReadQuizFile: %v", err)
	}
	if len(rows) != len(records) {
		t.Fatalf("rows = %d, want %d", len(rows), len(records))
	}
	for i, rec := range records {
		row := rows[i]
		if row.Question() != rec.Question {
			t.Errorf("row %d question = %q", i, row.Question())
		}
		for j, c := range row.Choices() {
			if c != rec.Choices[j] {
				t.Errorf("row %d choice %d = %q, want %q", i, j, c, rec.Choices[j])
			}
		}
		if row.CorrectAnswer() != rec.CorrectAnswer {
			t.Errorf("row %d correct = %q", i, row.CorrectAnswer())
		}
		if row[ColArbitrary] != Placeholder {
			t.Errorf("row %d arbitrary = %q", i, row[ColArbitrary])
		}
	}
}

func TestWriteQuizFileHeaderAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.csv")
	if err := WriteQuizFile(path, sampleRecords()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteQuizFile(path, nil); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Question,Answer A,Answer B,Answer C,Answer D,Correct Answer,Arbitrary Value\n"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}

	rows, err := ReadQuizFile(path)
	if err != nil {
		t.Fatalf("ReadQuizFile: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestOpenQuizFileNotFound(t *testing.T) {
	_, err := OpenQuizFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestOpenQuizFileMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "Question,Answer A,Answer B,Answer C,Answer D,Arbitrary Value\nq,a,b,c,d,x\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenQuizFile(path)
	if !errors.Is(err, ErrMalformedQuiz) {
		t.Fatalf("expected ErrMalformedQuiz, got %v", err)
	}
}

func TestReadQuizFileTruncatedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.csv")
	content := strings.Join(Header, ",") + "\n" +
		"q1,a,b,c,d,a - why,Placeholder\n" +
		"q2,a,b,c\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadQuizFile(path); !errors.Is(err, ErrMalformedQuiz) {
		t.Fatalf("expected ErrMalformedQuiz, got %v", err)
	}
}

func TestRowsIsLazy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.csv")
	if err := WriteQuizFile(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	qr, err := OpenQuizFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer qr.Close()

	var first Row
	for row, err := range qr.Rows() {
		if err != nil {
			t.Fatal(err)
		}
		first = row
		break
	}
	if first.Question() != "What is the capital of France?" {
		t.Fatalf("first question = %q", first.Question())
	}
}
