package api

import (
	"net/http"
)

// ListMySynclists handles GET /v1/my-synclists.
func (h *Handler) ListMySynclists(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	items, total, err := h.my.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[Synclist]{
		Meta:  ListMeta{Count: total},
		Links: pageLinks(r, page, total),
		Data:  synclistsToAPI(items),
	})
}

// CreateMySynclist handles POST /v1/my-synclists. The body is never read.
func (h *Handler) CreateMySynclist(w http.ResponseWriter, r *http.Request) {
	writeDomainError(w, r, h.logger, h.my.Create(r.Context()))
}

// GetMySynclist handles GET /v1/my-synclists/{id}.
func (h *Handler) GetMySynclist(w http.ResponseWriter, r *http.Request) {
	id, err := synclistIDParam(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	s, err := h.my.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, synclistToAPI(*s))
}

// PatchMySynclist handles PATCH /v1/my-synclists/{id}.
func (h *Handler) PatchMySynclist(w http.ResponseWriter, r *http.Request) {
	h.updateMySynclist(w, r, true)
}

// PutMySynclist handles PUT /v1/my-synclists/{id}.
func (h *Handler) PutMySynclist(w http.ResponseWriter, r *http.Request) {
	h.updateMySynclist(w, r, false)
}

func (h *Handler) updateMySynclist(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := synclistIDParam(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	var body UpdateSynclistBody
	if err := decodeJSON(r, &body); err != nil {
		// Not found and forbidden win over a malformed body.
		if authErr := h.my.AuthorizeUpdate(r.Context(), id); authErr != nil {
			err = authErr
		}
		writeDomainError(w, r, h.logger, err)
		return
	}
	s, err := h.my.Update(r.Context(), id, body.toDomain(), partial)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, synclistToAPI(*s))
}

// DeleteMySynclist handles DELETE /v1/my-synclists/{id}. The id is not
// resolved before the request is refused.
func (h *Handler) DeleteMySynclist(w http.ResponseWriter, r *http.Request) {
	id, _ := synclistIDParam(r)
	writeDomainError(w, r, h.logger, h.my.Delete(r.Context(), id))
}

// ListSynclists handles GET /v1/synclists.
func (h *Handler) ListSynclists(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	items, total, err := h.admin.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[Synclist]{
		Meta:  ListMeta{Count: total},
		Links: pageLinks(r, page, total),
		Data:  synclistsToAPI(items),
	})
}

// CreateSynclist handles POST /v1/synclists.
func (h *Handler) CreateSynclist(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.AuthorizeCreate(r.Context()); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	var body CreateSynclistBody
	if err := decodeJSON(r, &body); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	s, err := h.admin.Create(r.Context(), body.toDomain())
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, synclistToAPI(*s))
}

// GetSynclist handles GET /v1/synclists/{id}.
func (h *Handler) GetSynclist(w http.ResponseWriter, r *http.Request) {
	id, err := synclistIDParam(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	s, err := h.admin.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, synclistToAPI(*s))
}

// DeleteSynclist handles DELETE /v1/synclists/{id}.
func (h *Handler) DeleteSynclist(w http.ResponseWriter, r *http.Request) {
	id, err := synclistIDParam(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	if err := h.admin.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
