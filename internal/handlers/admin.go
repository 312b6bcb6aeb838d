package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/services"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// adminAuthorized checks the presented token against ADMIN_TOKEN_HASH
// (argon2id) when set, else ADMIN_TOKEN with a constant-time compare. With
// neither configured every request is rejected. The token comes from the
// query string or a Bearer header.
func adminAuthorized(r *http.Request) bool {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if token == "" {
		return false
	}
	if cfg.AdminTokenHash != "" {
		ok, err := utils.VerifyToken(token, cfg.AdminTokenHash)
		return err == nil && ok
	}
	if cfg.AdminToken != "" {
		return utils.SecureCompare(token, cfg.AdminToken)
	}
	return false
}

// AdminUsers handles GET /__admin/users: the full user dump, token-gated.
func AdminUsers(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	users, err := userStore.All(r.Context())
	if err != nil {
		log.Printf("⚠️ Admin: listing users: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Listing failed"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// AdminUsersRedacted handles GET /__admin/users/redacted: the masked view
// safe to paste into dashboards.
func AdminUsersRedacted(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	users, err := userStore.All(r.Context())
	if err != nil {
		log.Printf("⚠️ Admin: listing users: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Listing failed"})
		return
	}

	redacted := make([]models.RedactedUser, len(users))
	for i, u := range users {
		redacted[i] = models.RedactedUser{
			Phone:      utils.MaskPhone(u.Phone),
			Track:      u.Track,
			PerDay:     u.PerDay,
			Timezone:   u.Timezone,
			Subscribed: u.Subscribed,
			Stats:      u.Stats,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(redacted)
}

// AdminMessages handles GET /__admin/messages?phone=&limit=: a newest-first
// page of the message log, decrypted when the key is available.
func AdminMessages(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	phone := utils.NormalizePhone(r.URL.Query().Get("phone"))
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	msgs, err := services.LoadMessages(r.Context(), phone, limit)
	if err != nil {
		log.Printf("⚠️ Admin: loading messages: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "History unavailable"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}
