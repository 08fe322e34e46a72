package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
)

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.uc.User.Me(r.Context(), currentUser(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

// ensureProfile creates the caller's profile. Fields missing from the body
// are taken from the verified token.
func (s *Server) ensureProfile(w http.ResponseWriter, r *http.Request) {
	var input model.ProfileInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &input); err != nil {
			handleError(w, r, err)
			return
		}
	}
	if token, err := auth.TokenFromContext(r.Context()); err == nil {
		if input.Name == "" {
			input.Name = token.Name
		}
		if input.Email == "" {
			input.Email = token.Email
		}
	}

	user, err := s.uc.User.EnsureProfile(r.Context(), currentUser(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.uc.User.ListUsers(r.Context(), currentUser(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convertList(users, toUserResponse))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.uc.User.GetUser(r.Context(), currentUser(r.Context()), model.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var input model.UserInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.uc.User.UpdateUser(r.Context(), currentUser(r.Context()), model.UserID(chi.URLParam(r, "userID")), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

func (s *Server) deactivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.uc.User.DeactivateUser(r.Context(), currentUser(r.Context()), model.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}
