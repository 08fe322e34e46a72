package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/service/identity"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
)

// DefaultMaxUploadSize bounds the multipart body of an attachment upload
const DefaultMaxUploadSize = 32 << 20

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	authn         interfaces.Authenticator
	maxUploadSize int64
}

type Options func(*Server)

// WithAuthenticator sets how bearer tokens are verified. Without it every
// request runs as a fixed development identity.
func WithAuthenticator(authn interfaces.Authenticator) Options {
	return func(s *Server) {
		s.authn = authn
	}
}

func WithMaxUploadSize(size int64) Options {
	return func(s *Server) {
		s.maxUploadSize = size
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authn == nil {
		s.authn = identity.NewNoAuthn("anonymous", "anonymous@example.com", "Anonymous")
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authn))

		r.Get("/me", s.getMe)
		r.Post("/me", s.ensureProfile)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Get("/{userID}", s.getUser)
			r.Patch("/{userID}", s.updateUser)
			r.Post("/{userID}/deactivate", s.deactivateUser)
		})

		r.Route("/departments", s.masterRoutes(departmentHandlers(s.uc.Master)))
		r.Route("/designations", s.masterRoutes(designationHandlers(s.uc.Master)))

		r.Route("/initiatives", func(r chi.Router) {
			r.Get("/", s.listInitiatives)
			r.Post("/", s.createInitiative)

			r.Route("/{initiativeID}", func(r chi.Router) {
				r.Get("/", s.getInitiative)
				r.Patch("/", s.updateInitiative)
				r.Delete("/", s.deleteInitiative)

				r.Get("/tasks", s.listTasks)
				r.Post("/tasks", s.createTask)
				r.Get("/tasks/{taskID}", s.getTask)
				r.Patch("/tasks/{taskID}", s.updateTask)
				r.Delete("/tasks/{taskID}", s.deleteTask)

				r.Get("/attachments", s.listAttachments)
				r.Post("/attachments", s.uploadAttachment)
				r.Get("/attachments/{attachmentID}/content", s.downloadAttachment)
				r.Delete("/attachments/{attachmentID}", s.deleteAttachment)

				r.Get("/ratings", s.listRatings)
				r.Get("/checkins", s.listCheckins)
			})
		})

		r.Route("/live", func(r chi.Router) {
			r.Get("/initiatives", s.liveInitiatives)
			r.Get("/initiatives/{initiativeID}", s.liveInitiative)
			r.Get("/initiatives/{initiativeID}/tasks", s.liveTasks)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
