// Package quiz turns generated question text into quiz records, stores them
// as CSV quiz files and scores submissions against them.
package quiz

import (
	"fmt"
	"pdf_quiz_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const (
	// AnswerMarker introduces the correct-answer line of a block.
	AnswerMarker = "The correct answer is "
	// Placeholder fills the Arbitrary Value column.
	Placeholder = "Placeholder"

	blockLines = 6
)

// QuestionRecord is one parsed question, in CSV column order.
type QuestionRecord struct {
	Question      string
	Choices       [4]string
	CorrectAnswer string
	Placeholder   string
}

// Fields returns the record as a 7-column CSV row.
func (r QuestionRecord) Fields() []string {
	return []string{
		r.Question,
		r.Choices[0],
		r.Choices[1],
		r.Choices[2],
		r.Choices[3],
		r.CorrectAnswer,
		r.Placeholder,
	}
}

// FormatError reports a block that does not follow the 6-line layout.
type FormatError struct {
	Block  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid question block (%s): %q", e.Reason, e.Block)
}

// BlockFailure records a skipped block and its position in the generated text.
type BlockFailure struct {
	Index int
	Err   error
}

// ParseResult is the outcome of parsing one generated response.
type ParseResult struct {
	Records  []QuestionRecord
	Failures []BlockFailure
	// Unmatched counts records whose answer letter matched no choice;
	// their correct-answer text starts with an empty choice.
	Unmatched int
}

// SplitBlocks splits generated text on blank lines and drops empty chunks.
// A blank line inside a question splits it in two; callers rely on this layout.
func SplitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []string
	for _, b := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// ParseBlock decomposes a single block into a record. The bool result is
// false when the answer letter matched none of the choices.
func ParseBlock(block string) (QuestionRecord, bool, error) {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(block), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < blockLines {
		return QuestionRecord{}, false, &FormatError{Block: block, Reason: fmt.Sprintf("%d lines", len(lines))}
	}

	rec := QuestionRecord{Question: lines[0], Placeholder: Placeholder}
	copy(rec.Choices[:], lines[1:5])

	answerLine := lines[5]
	if !strings.Contains(answerLine, AnswerMarker) {
		return QuestionRecord{}, false, &FormatError{Block: block, Reason: "missing answer marker"}
	}
	part := strings.TrimSpace(strings.Split(answerLine, AnswerMarker)[1])

	letter, explanation := part, ""
	if i := strings.Index(part, " "); i >= 0 {
		letter = strings.TrimSpace(part[:i])
		explanation = strings.TrimSpace(part[i+1:])
	}

	matched := false
	correct := ""
	for _, choice := range rec.Choices {
		if strings.HasPrefix(choice, letter) {
			correct, matched = choice, true
			break
		}
	}
	rec.CorrectAnswer = correct + " - " + explanation
	return rec, matched, nil
}

// ParseQuestions parses every block of a generated response. Malformed
// blocks are logged and skipped; they never abort the batch.
func ParseQuestions(text string) ParseResult {
	var res ParseResult
	for i, block := range SplitBlocks(text) {
		rec, matched, err := ParseBlock(block)
		if err != nil {
			logger.Log.Warn("skipping question block", zap.Int("block", i), zap.Error(err))
			res.Failures = append(res.Failures, BlockFailure{Index: i, Err: err})
			continue
		}
		if !matched {
			logger.Log.Warn("answer letter matched no choice",
				zap.Int("block", i),
				zap.String("question", rec.Question))
			res.Unmatched++
		}
		res.Records = append(res.Records, rec)
	}
	return res
}
