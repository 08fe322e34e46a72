package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
)

func initiativeIDParam(r *http.Request) model.InitiativeID {
	return model.InitiativeID(chi.URLParam(r, "initiativeID"))
}

func (s *Server) listInitiatives(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Initiative.ListInitiatives(r.Context(), currentUser(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convertList(list, toInitiativeResponse))
}

func (s *Server) createInitiative(w http.ResponseWriter, r *http.Request) {
	var input model.InitiativeInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	ini, err := s.uc.Initiative.Create(r.Context(), currentUser(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toInitiativeResponse(ini))
}

func (s *Server) getInitiative(w http.ResponseWriter, r *http.Request) {
	ini, err := s.uc.Initiative.GetInitiative(r.Context(), currentUser(r.Context()), initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toInitiativeResponse(ini))
}

func (s *Server) updateInitiative(w http.ResponseWriter, r *http.Request) {
	var input model.InitiativeInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	ini, err := s.uc.Initiative.Update(r.Context(), currentUser(r.Context()), initiativeIDParam(r), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toInitiativeResponse(ini))
}

func (s *Server) deleteInitiative(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Initiative.Delete(r.Context(), currentUser(r.Context()), initiativeIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskIDParam(r *http.Request) model.TaskID {
	return model.TaskID(chi.URLParam(r, "taskID"))
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.uc.Task.ListTasks(r.Context(), currentUser(r.Context()), initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convertList(tasks, toTaskResponse))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.uc.Task.GetTask(r.Context(), currentUser(r.Context()), initiativeIDParam(r), taskIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var input model.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.uc.Task.Create(r.Context(), currentUser(r.Context()), initiativeIDParam(r), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var input model.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.uc.Task.Update(r.Context(), currentUser(r.Context()), initiativeIDParam(r), taskIDParam(r), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Task.Delete(r.Context(), currentUser(r.Context()), initiativeIDParam(r), taskIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ratingsResponse struct {
	InitiativeRatings []*initiativeRatingResponse `json:"initiativeRatings"`
	UserRatings       []*userRatingResponse       `json:"userRatings"`
}

func (s *Server) listRatings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := currentUser(ctx)

	initiativeRatings, err := s.uc.Rating.ListInitiativeRatings(ctx, uid, initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	userRatings, err := s.uc.Rating.ListUserRatings(ctx, uid, initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ratingsResponse{
		InitiativeRatings: convertList(initiativeRatings, toInitiativeRatingResponse),
		UserRatings:       convertList(userRatings, toUserRatingResponse),
	})
}

func (s *Server) listCheckins(w http.ResponseWriter, r *http.Request) {
	checkins, err := s.uc.Rating.ListDailyCheckins(r.Context(), currentUser(r.Context()), initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convertList(checkins, toCheckinResponse))
}
