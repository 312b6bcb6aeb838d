package quiz

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
)

var (
	// ErrQuestionNotFound means the qid does not exist in the track's bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoQuestions means a track has no bank entries to serve.
	ErrNoQuestions = errors.New("no questions for track")
)

const choiceLetters = "ABCDE"

// SampleVerdict is the result of grading a knowledge-bank answer.
type SampleVerdict struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	CorrectLetter string `json:"correct_letter,omitempty"`
	Rationale     string `json:"rationale"`
	Tip           string `json:"tip"`
}

// PickSample returns a random bank question for the track.
func PickSample(track string) (*Question, error) {
	qs := questionBanks[track]
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	q := qs[rand.Intn(len(qs))]
	return &q, nil
}

// FindQuestion looks a bank question up by id within a track.
func FindQuestion(track, qid string) (*Question, bool) {
	for _, q := range questionBanks[track] {
		if q.ID == qid {
			return &q, true
		}
	}
	return nil, false
}

// ParseChoice resolves a reply to a 0-based choice index. It accepts a
// single letter (A-E), a 1-based number, or the full text of a choice,
// all case-insensitive. ok is false when the reply matches none of these.
func ParseChoice(choices []string, reply string) (int, bool) {
	up := strings.ToUpper(strings.TrimSpace(reply))
	if len(up) == 1 && len(choices) > 0 {
		if i := strings.IndexByte(choiceLetters, up[0]); i >= 0 && i < len(choices) {
			return i, true
		}
	}
	if n, err := strconv.Atoi(up); err == nil && n >= 1 && n <= len(choices) {
		return n - 1, true
	}
	for i, c := range choices {
		if strings.ToUpper(strings.TrimSpace(c)) == up {
			return i, true
		}
	}
	return 0, false
}

// GradeSample grades a reply against a bank question. The reply may be a
// letter, a 1-based index, or full answer text; anything else is compared
// verbatim against the correct answer and comes out incorrect.
func GradeSample(track, qid, reply string) (SampleVerdict, error) {
	q, ok := FindQuestion(track, qid)
	if !ok {
		return SampleVerdict{}, ErrQuestionNotFound
	}

	chosen := strings.TrimSpace(reply)
	if idx, ok := ParseChoice(q.Choices, reply); ok {
		chosen = q.Choices[idx]
	}

	v := SampleVerdict{
		Correct:       strings.EqualFold(strings.TrimSpace(chosen), strings.TrimSpace(q.Answer)),
		CorrectAnswer: q.Answer,
		Rationale:     q.Rationale,
		Tip:           q.Tip,
	}
	for i, c := range q.Choices {
		if c == q.Answer && i < len(choiceLetters) {
			v.CorrectLetter = string(choiceLetters[i])
			break
		}
	}
	return v, nil
}

// FormatSample renders a bank question as an outbound message body with
// lettered choices.
func FormatSample(q *Question) string {
	var b strings.Builder
	b.WriteString(q.Q)
	for i, c := range q.Choices {
		if i >= len(choiceLetters) {
			break
		}
		b.WriteByte('\n')
		b.WriteByte(choiceLetters[i])
		b.WriteString(") ")
		b.WriteString(c)
	}
	b.WriteString("\nReply with a number or A–E. (HINT for a nudge)")
	return b.String()
}
