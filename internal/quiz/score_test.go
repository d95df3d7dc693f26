package quiz

import "testing"

func parisRow() Row {
	return Row{
		ColQuestion:      "What is the capital of France?",
		ColAnswerA:       "a) London",
		ColAnswerB:       "b) Paris",
		ColAnswerC:       "c) Rome",
		ColAnswerD:       "d) Berlin",
		ColCorrectAnswer: "b) Paris - because it is the capital",
		ColArbitrary:     Placeholder,
	}
}

func TestScoreFirstCharacterMatch(t *testing.T) {
	rows := []Row{parisRow()}

	res := Score(rows, map[string]string{"What is the capital of France?": "b) Paris"})
	if res.Correct != 1 || res.Total != 1 {
		t.Fatalf("got %d/%d, want 1/1", res.Correct, res.Total)
	}
	if res.Summary != "You got 1 out of 1 correct!" {
		t.Fatalf("summary = %q", res.Summary)
	}
	if !res.Questions[0].IsCorrect || res.Questions[0].SelectedAnswer != "b) Paris" {
		t.Fatalf("unexpected detail %+v", res.Questions[0])
	}

	res = Score(rows, map[string]string{"What is the capital of France?": "a) London"})
	if res.Correct != 0 || res.Questions[0].IsCorrect {
		t.Fatalf("a) London should be incorrect: %+v", res)
	}
}

func TestScoreMissingAndUnmatchedAnswers(t *testing.T) {
	unmatched := parisRow()
	unmatched[ColQuestion] = "Unmatched?"
	unmatched[ColCorrectAnswer] = " - nobody matched"

	rows := []Row{parisRow(), unmatched}
	res := Score(rows, map[string]string{"Unmatched?": "a) London"})
	if res.Correct != 0 || res.Total != 2 {
		t.Fatalf("got %d/%d, want 0/2", res.Correct, res.Total)
	}
	if res.Questions[0].SelectedAnswer != "" {
		t.Fatalf("missing submission should be empty, got %q", res.Questions[0].SelectedAnswer)
	}
	if len(res.Questions[1].Choices) != 4 {
		t.Fatalf("choices = %v", res.Questions[1].Choices)
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	res := Score(nil, nil)
	if res.Total != 0 || res.Summary != "You got 0 out of 0 correct!" {
		t.Fatalf("unexpected %+v", res)
	}
}
