package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/andrew-nagda/texting-project/internal/quiz"
)

// QuizSampleResponse is one bank question without its answer.
type QuizSampleResponse struct {
	QID      string   `json:"qid"`
	Track    string   `json:"track"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

// QuizGradeRequest grades a bank answer by question id.
type QuizGradeRequest struct {
	Track  string `json:"track"`
	QID    string `json:"qid"`
	Answer string `json:"answer"`
}

// QuizGradeResponse mirrors the grader verdict.
type QuizGradeResponse struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	CorrectLetter string `json:"correct_letter,omitempty"`
	Rationale     string `json:"rationale,omitempty"`
	Tip           string `json:"tip,omitempty"`
}

// QuizSample handles GET /quiz/sample?track=.
func QuizSample(w http.ResponseWriter, r *http.Request) {
	track, ok := quiz.CanonicalTrack(r.URL.Query().Get("track"))
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid track"})
		return
	}

	q, err := quiz.PickSample(track)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MessageResponse{Message: "No questions yet for this track."})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QuizSampleResponse{
		QID:      q.ID,
		Track:    track,
		Question: q.Q,
		Choices:  q.Choices,
	})
}

// QuizGrade handles POST /quiz/grade {track, qid, answer}.
func QuizGrade(w http.ResponseWriter, r *http.Request) {
	var req QuizGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	track, ok := quiz.CanonicalTrack(req.Track)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid track"})
		return
	}
	qid := strings.TrimSpace(req.QID)
	answer := strings.TrimSpace(req.Answer)
	if qid == "" || answer == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "qid and answer required"})
		return
	}

	verdict, err := quiz.GradeSample(track, qid, answer)
	if err != nil {
		if errors.Is(err, quiz.ErrQuestionNotFound) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Question not found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Grading failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QuizGradeResponse{
		Correct:       verdict.Correct,
		CorrectAnswer: verdict.CorrectAnswer,
		CorrectLetter: verdict.CorrectLetter,
		Rationale:     verdict.Rationale,
		Tip:           verdict.Tip,
	})
}
