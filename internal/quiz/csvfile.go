package quiz

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Quiz file column names.
const (
	ColQuestion      = "Question"
	ColAnswerA       = "Answer A"
	ColAnswerB       = "Answer B"
	ColAnswerC       = "Answer C"
	ColAnswerD       = "Answer D"
	ColCorrectAnswer = "Correct Answer"
	ColArbitrary     = "Arbitrary Value"
)

// Header is the fixed first row of every quiz file.
var Header = []string{ColQuestion, ColAnswerA, ColAnswerB, ColAnswerC, ColAnswerD, ColCorrectAnswer, ColArbitrary}

var (
	ErrQuizNotFound  = errors.New("quiz file not found")
	ErrMalformedQuiz = errors.New("malformed quiz file")
)

// Row is one quiz file line keyed by column name.
type Row map[string]string

func (r Row) Question() string      { return r[ColQuestion] }
func (r Row) CorrectAnswer() string { return r[ColCorrectAnswer] }

func (r Row) Choices() []string {
	return []string{r[ColAnswerA], r[ColAnswerB], r[ColAnswerC], r[ColAnswerD]}
}

// WriteQuizFile replaces the file at path with the header and one row per record.
func WriteQuizFile(path string, records []QuestionRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create quiz dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create quiz file: %w", err)
	}
	defer f.Close()

	if err := writeRecords(f, records); err != nil {
		return err
	}
	return f.Close()
}

func writeRecords(w io.Writer, records []QuestionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// QuizReader streams rows of an open quiz file.
type QuizReader struct {
	f      *os.File
	r      *csv.Reader
	header []string
}

// OpenQuizFile opens path and validates its header. A missing file yields ErrQuizNotFound.
func OpenQuizFile(path string) (*QuizReader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, filepath.Base(path))
		}
		return nil, err
	}

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedQuiz, err)
	}
	if err := checkHeader(header); err != nil {
		f.Close()
		return nil, err
	}
	// every row must have as many fields as the header
	r.FieldsPerRecord = len(header)

	return &QuizReader{f: f, r: r, header: header}, nil
}

func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range Header {
		if !present[col] {
			return fmt.Errorf("%w: missing column %q", ErrMalformedQuiz, col)
		}
	}
	return nil
}

// Rows yields rows lazily in file order. A read error is yielded once and ends the sequence.
func (q *QuizReader) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for {
			fields, err := q.r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: %v", ErrMalformedQuiz, err))
				return
			}
			row := make(Row, len(q.header))
			for i, h := range q.header {
				row[h] = fields[i]
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (q *QuizReader) Close() error {
	return q.f.Close()
}

// ReadQuizFile reads every row of the quiz file at path.
func ReadQuizFile(path string) ([]Row, error) {
	qr, err := OpenQuizFile(path)
	if err != nil {
		return nil, err
	}
	defer qr.Close()

	var rows []Row
	for row, err := range qr.Rows() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
