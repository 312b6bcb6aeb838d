package quiz

import (
	"math/rand"

	"github.com/andrew-nagda/texting-project/internal/models"
)

// NewQuestion produces the next outbound question for a track: the message
// body to send plus the open-question record to store against the user.
// Tracks with a drill generator alternate between bank questions and
// generated math; everything else serves the bank.
func NewQuestion(track string) (string, *models.OpenQuestion, error) {
	if HasMathTrack(track) && (len(questionBanks[track]) == 0 || rand.Intn(2) == 0) {
		m := NewMathQuestion(track)
		open := &models.OpenQuestion{
			Kind:       models.QuestionKindMath,
			Track:      m.Track,
			QuestionID: m.QID,
		}
		return FormatMath(m), open, nil
	}
	q, err := PickSample(track)
	if err != nil {
		return "", nil, err
	}
	open := &models.OpenQuestion{
		Kind:       models.QuestionKindSample,
		Track:      track,
		QuestionID: q.ID,
	}
	return FormatSample(q), open, nil
}
