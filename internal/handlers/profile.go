package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/andrew-nagda/texting-project/internal/quiz"
	"github.com/andrew-nagda/texting-project/internal/schedule"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// Me handles GET /me?phone=. Accepts bare 10-digit US numbers as a
// convenience; returns the full stored record.
func Me(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("phone"))
	if raw == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Phone required"})
		return
	}
	phone := utils.NormalizePhone(raw)
	if !utils.ValidE164(phone) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Phone must be E.164 or 10-digit US"})
		return
	}

	u, err := userStore.Get(r.Context(), phone)
	if err != nil {
		log.Printf("⚠️ Me: loading %s: %v", utils.MaskPhone(phone), err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Lookup failed"})
		return
	}
	if u == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// UpdateRequest represents a partial profile update. Zero values leave the
// stored field unchanged.
type UpdateRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Track    string `json:"track"`
	PerDay   int    `json:"per_day"`
	Timezone string `json:"timezone"`
}

// Update handles POST /update. Never creates a user; unknown phones get 404.
// Changing per_day or timezone rebuilds today's schedule.
func Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidE164(phone) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Phone must be E.164"})
		return
	}

	ctx := r.Context()
	u, err := userStore.Get(ctx, phone)
	if err != nil {
		log.Printf("⚠️ Update: loading %s: %v", utils.MaskPhone(phone), err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Lookup failed"})
		return
	}
	if u == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "User not found"})
		return
	}

	name := strings.TrimSpace(req.Name)
	track := u.Track
	if strings.TrimSpace(req.Track) != "" {
		canon, ok := quiz.CanonicalTrack(req.Track)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid track"})
			return
		}
		track = canon
	}
	perDay := u.PerDay
	if req.PerDay != 0 {
		if req.PerDay < 1 || req.PerDay > 3 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "per_day must be 1–3"})
			return
		}
		perDay = req.PerDay
	}
	tz := u.Timezone
	if strings.TrimSpace(req.Timezone) != "" {
		tz = strings.TrimSpace(req.Timezone)
	}

	rebuild := perDay != u.PerDay || tz != u.Timezone
	if name != "" {
		u.Name = name
	}
	u.Track = track
	u.PerDay = perDay
	u.Timezone = tz
	if rebuild {
		loc := u.Location(cfg.DefaultTimezone)
		u.Schedule = schedule.Generate(time.Now(), loc, u.PerDay, cfg.WindowStartHour, cfg.WindowEndHour)
	}

	if err := userStore.Save(ctx, u); err != nil {
		log.Printf("⚠️ Update: saving %s: %v", utils.MaskPhone(phone), err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Could not save user"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OKResponse{OK: true})
}
