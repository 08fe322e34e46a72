package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
)

// masterHandlers binds one lookup table's operations
type masterHandlers struct {
	list   func(ctx context.Context, uid model.UserID) ([]*model.MasterItem, error)
	create func(ctx context.Context, uid model.UserID, input model.MasterInput) (*model.MasterItem, error)
	update func(ctx context.Context, uid model.UserID, id string, input model.MasterInput) (*model.MasterItem, error)
	delete func(ctx context.Context, uid model.UserID, id string) error
}

func departmentHandlers(uc *usecase.MasterUseCase) masterHandlers {
	return masterHandlers{
		list:   uc.ListDepartments,
		create: uc.CreateDepartment,
		update: uc.UpdateDepartment,
		delete: uc.DeleteDepartment,
	}
}

func designationHandlers(uc *usecase.MasterUseCase) masterHandlers {
	return masterHandlers{
		list:   uc.ListDesignations,
		create: uc.CreateDesignation,
		update: uc.UpdateDesignation,
		delete: uc.DeleteDesignation,
	}
}

func (s *Server) masterRoutes(h masterHandlers) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := h.list(r.Context(), currentUser(r.Context()))
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, convertList(items, toMasterItemResponse))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var input model.MasterInput
			if err := decodeJSON(r, &input); err != nil {
				handleError(w, r, err)
				return
			}
			item, err := h.create(r.Context(), currentUser(r.Context()), input)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusCreated, toMasterItemResponse(item))
		})

		r.Patch("/{itemID}", func(w http.ResponseWriter, r *http.Request) {
			var input model.MasterInput
			if err := decodeJSON(r, &input); err != nil {
				handleError(w, r, err)
				return
			}
			item, err := h.update(r.Context(), currentUser(r.Context()), chi.URLParam(r, "itemID"), input)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, toMasterItemResponse(item))
		})

		r.Delete("/{itemID}", func(w http.ResponseWriter, r *http.Request) {
			if err := h.delete(r.Context(), currentUser(r.Context()), chi.URLParam(r, "itemID")); err != nil {
				handleError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
