package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/andrew-nagda/texting-project/internal/conversation"
	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/quiz"
	"github.com/andrew-nagda/texting-project/internal/schedule"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// SignupRequest represents the enrollment form.
type SignupRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Track    string `json:"track"`
	PerDay   int    `json:"per_day"`
	Timezone string `json:"timezone"`
	Consent  bool   `json:"consent"`
}

// Signup handles POST /signup. Creates or updates the subscriber (stats
// survive a re-signup), builds today's delivery schedule, then sends the
// welcome text and a first question in the background.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	phone := utils.NormalizePhone(req.Phone)
	perDay := req.PerDay
	if perDay == 0 {
		perDay = 1
	}
	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = cfg.DefaultTimezone
	}

	if name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Name required"})
		return
	}
	if !utils.ValidE164(phone) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Phone must be E.164 (e.g., +15551234567)"})
		return
	}
	track, ok := quiz.CanonicalTrack(req.Track)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid track"})
		return
	}
	if perDay < 1 || perDay > 3 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "per_day must be 1–3"})
		return
	}
	if !req.Consent {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Consent is required"})
		return
	}

	ctx := r.Context()
	u, err := userStore.Get(ctx, phone)
	if err != nil {
		log.Printf("⚠️ Signup: loading %s: %v", utils.MaskPhone(phone), err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Could not save user"})
		return
	}
	if u == nil {
		u = &models.User{Phone: phone}
	}

	u.Name = name
	u.Track = track
	u.PerDay = perDay
	u.Timezone = tz
	u.Subscribed = true
	u.Consent = true

	now := time.Now()
	loc := u.Location(cfg.DefaultTimezone)
	u.Schedule = schedule.Generate(now, loc, u.PerDay, cfg.WindowStartHour, cfg.WindowEndHour)

	questionBody, open, err := quiz.NewQuestion(u.Track)
	if err != nil {
		log.Printf("⚠️ Signup: no first question for track %s: %v", u.Track, err)
		questionBody = ""
	} else {
		u.Open = open
	}

	if err := userStore.Save(ctx, u); err != nil {
		log.Printf("⚠️ Signup: saving %s: %v", utils.MaskPhone(phone), err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Could not save user"})
		return
	}

	go func(phone, welcome, question string) {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sender.Send(sctx, phone, welcome); err != nil {
			log.Printf("⚠️ Signup: welcome to %s failed: %v", utils.MaskPhone(phone), err)
		}
		if question == "" {
			return
		}
		if err := sender.Send(sctx, phone, question); err != nil {
			log.Printf("⚠️ Signup: first question to %s failed: %v", utils.MaskPhone(phone), err)
		}
	}(u.Phone, conversation.WelcomeText(u.Track), questionBody)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OKResponse{OK: true})
}
