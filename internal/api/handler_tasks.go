package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTasks handles GET /v1/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	items, total, err := h.tasks.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[Task]{
		Meta:  ListMeta{Count: total},
		Links: pageLinks(r, page, total),
		Data:  tasksToAPI(items),
	})
}

// GetTask handles GET /v1/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToAPI(*t))
}
