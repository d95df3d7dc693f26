package quiz

import (
	"fmt"
	"unicode/utf8"
)

// ScoredQuestion is a quiz row together with the submitted choice.
type ScoredQuestion struct {
	Question       string   `json:"question"`
	Choices        []string `json:"choices"`
	CorrectAnswer  string   `json:"correctAnswer"`
	SelectedAnswer string   `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
}

type ScoreResult struct {
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Summary   string           `json:"summary"`
	Questions []ScoredQuestion `json:"questions"`
}

// Score matches each submitted choice against the stored correct answer by
// first character only. selected maps question text to the chosen choice text.
func Score(rows []Row, selected map[string]string) ScoreResult {
	res := ScoreResult{Questions: make([]ScoredQuestion, 0, len(rows))}
	for _, row := range rows {
		answer := selected[row.Question()]
		ok := sameFirstRune(answer, row.CorrectAnswer())
		if ok {
			res.Correct++
		}
		res.Total++
		res.Questions = append(res.Questions, ScoredQuestion{
			Question:       row.Question(),
			Choices:        row.Choices(),
			CorrectAnswer:  row.CorrectAnswer(),
			SelectedAnswer: answer,
			IsCorrect:      ok,
		})
	}
	res.Summary = Summary(res.Correct, res.Total)
	return res
}

func Summary(correct, total int) string {
	return fmt.Sprintf("You got %d out of %d correct!", correct, total)
}

func sameFirstRune(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	return ra == rb
}
