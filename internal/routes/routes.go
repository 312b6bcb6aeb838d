package routes

import (
	"net/http"

	"github.com/andrew-nagda/texting-project/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Enrollment and profile
	r.Post("/signup", handlers.Signup)
	r.Get("/me", handlers.Me)
	r.Post("/update", handlers.Update)

	// Provider webhook (POST) and its liveness probe (GET)
	r.Post("/sms", handlers.SMSWebhook)
	r.Get("/sms", handlers.SMSHealth)

	// Knowledge quiz API
	r.Get("/quiz/sample", handlers.QuizSample)
	r.Post("/quiz/grade", handlers.QuizGrade)

	// Mental math API
	r.Get("/math/sample", handlers.MathSample)
	r.Post("/math/grade", handlers.MathGrade)

	// Admin (read-only, token-gated)
	r.Get("/__admin/users", handlers.AdminUsers)
	r.Get("/__admin/users/redacted", handlers.AdminUsersRedacted)
	r.Get("/__admin/messages", handlers.AdminMessages)

	// Dev virtual phone
	r.Get("/console", handlers.ConsolePage)
	r.Get("/console/ws", handlers.ConsoleWS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}
