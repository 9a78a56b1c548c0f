package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/Abdelgadir-Osman/ai-interview-coach/internal/handler/interview"
	middlewarePkg "github.com/Abdelgadir-Osman/ai-interview-coach/internal/middleware"
	interviewService "github.com/Abdelgadir-Osman/ai-interview-coach/internal/service/interview"
	"github.com/Abdelgadir-Osman/ai-interview-coach/pkg/utils"
)

// NewRouter wires HTTP routes to the interview service.
func NewRouter(svc *interviewService.Service, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	h := interviewHandler.New(svc)
	ws := interviewHandler.NewWebSocketHandler(svc)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
		ws.RegisterWebSocketRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
