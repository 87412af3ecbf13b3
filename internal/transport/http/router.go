package http

import (
	"net/http"
	"time"

	httpmw "github.com/saurabh-G07/Virtual-court-platform/internal/transport/http/middleware"
	"github.com/saurabh-G07/Virtual-court-platform/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, tokens httpmw.TokenVerifier, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint: токен проверяется в самом хендлере (query param)
	r.Get("/ws/stream", wsServer.HandleWS)

	// публичные
	r.Group(func(pub chi.Router) {
		pub.Use(middlewareChi.Timeout(30 * time.Second))
		pub.Post("/auth/register", h.Register)
		pub.Post("/auth/login", h.Login)
	})

	// всё остальное требует Bearer-токен
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware(tokens))
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Get("/auth/me", h.Me)

		pr.Route("/users", func(ru chi.Router) {
			ru.Get("/", h.ListUsers)
			ru.Put("/profile", h.UpdateProfile)
			ru.Get("/{id}", h.GetUser)
			ru.Delete("/{id}", h.DeleteUser)
		})

		pr.Route("/meetings", func(rm chi.Router) {
			rm.Post("/", h.CreateMeeting)
			rm.Get("/", h.ListMeetings)
			rm.Get("/room/{roomId}/chat", h.GetChatHistory)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetMeeting)
				rr.Put("/", h.UpdateMeeting)
				rr.Delete("/", h.DeleteMeeting)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
