package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/andrew-nagda/texting-project/internal/quiz"
)

// mathTrack resolves a generator-track name. Empty defaults to General.
func mathTrack(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "General", true
	}
	if needle == "ib" {
		return "Investment Banking", true
	}
	for _, t := range quiz.MathTracks() {
		if strings.ToLower(t) == needle {
			return t, true
		}
	}
	return "", false
}

// MathGradeRequest grades a numeric answer against its drill qid.
type MathGradeRequest struct {
	Track  string `json:"track"`
	QID    string `json:"qid"`
	Answer string `json:"answer"`
}

// MathSample handles GET /math/sample?track=. Track defaults to General.
func MathSample(w http.ResponseWriter, r *http.Request) {
	track, ok := mathTrack(r.URL.Query().Get("track"))
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid track"})
		return
	}

	q := quiz.NewMathQuestion(track)
	if q == nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MessageResponse{Message: "No math generator for this track yet."})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(q)
}

// MathGrade handles POST /math/grade {track, qid, answer}.
func MathGrade(w http.ResponseWriter, r *http.Request) {
	var req MathGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if _, ok := mathTrack(req.Track); !ok {
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

	verdict, err := quiz.GradeMath(qid, answer)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, quiz.ErrNoNumber) {
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Could not parse numeric answer."})
			return
		}
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unknown question id"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(verdict)
}
