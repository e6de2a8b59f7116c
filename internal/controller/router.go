package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (c controller) GetRouter(allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(c.requestIDMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", sessionIDHeader},
		AllowCredentials: true,
	}))

	r.Get("/api/health", c.health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", c.register)
		r.Post("/login", c.login)
		r.Get("/verify-email/{token}", c.verifyEmail)
		r.Post("/resend-verification", c.resendVerification)
		r.Post("/logout", c.logout)

		r.Group(func(r chi.Router) {
			r.Use(c.authMw)
			r.Get("/me", c.me)
		})
	})

	// Invite landing page lookup happens before the invitee has an account.
	r.Get("/api/invitations/token/{token}", c.getInvitationByToken)

	r.Group(func(r chi.Router) {
		r.Use(c.authMw)

		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", c.listProjects)
			r.Post("/", c.createProject)
			r.Get("/{projectID}", c.getProject)
			r.Put("/{projectID}", c.updateProject)
			r.Delete("/{projectID}", c.deleteProject)
			r.Post("/{projectID}/members", c.addProjectMember)
		})

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/project/{projectID}", c.listProjectTasks)
			r.Post("/", c.createTask)
			r.Put("/{taskID}", c.updateTask)
			r.Delete("/{taskID}", c.deleteTask)
		})

		r.Route("/api/invitations", func(r chi.Router) {
			r.Get("/project/{projectID}", c.listProjectInvitations)
			r.Post("/accept/{token}", c.acceptInvitation)
			r.Post("/{invitationID}/resend", c.resendInvitation)
		})

		r.Route("/api/videos/project/{projectID}", func(r chi.Router) {
			r.Get("/", c.getProjectVideo)
			r.Post("/", c.addProjectVideo)
			r.Put("/state", c.updateVideoState)
			r.Delete("/", c.removeProjectVideo)
		})
	})

	r.Get("/ws", c.handleWS)

	return r
}

func (c controller) health(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
