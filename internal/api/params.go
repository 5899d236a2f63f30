package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"synclist-hub/internal/domain"
)

// synclistIDParam binds the {id} path segment. A malformed id names no
// synclist, so it is reported as not found rather than as a bad request.
func synclistIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound("synclist %q not found", raw)
	}
	return id, nil
}

// pageParams binds the optional limit and offset query parameters.
func pageParams(r *http.Request) (domain.PageRequest, error) {
	var limit, offset *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PageRequest{}, domain.ErrValidation("invalid limit: %v", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &offset); err != nil {
		return domain.PageRequest{}, domain.ErrValidation("invalid offset: %v", err)
	}
	p := domain.PageRequest{}
	if limit != nil {
		if *limit < 0 {
			return domain.PageRequest{}, domain.ErrValidation("limit must not be negative")
		}
		p.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			return domain.PageRequest{}, domain.ErrValidation("offset must not be negative")
		}
		p.Offset = *offset
	}
	return p, nil
}

// pageLinks builds the next/previous links for a page of total items.
func pageLinks(r *http.Request, page domain.PageRequest, total int64) ListLinks {
	limit := page.EffectiveLimit()
	offset := page.EffectiveOffset()
	var links ListLinks
	if page.HasNext(total) {
		links.Next = pageURL(r.URL, limit, offset+limit)
	}
	if page.HasPrevious() {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		links.Previous = pageURL(r.URL, limit, prev)
	}
	return links
}

func pageURL(base *url.URL, limit, offset int) *string {
	q := base.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	s := fmt.Sprintf("%s?%s", base.Path, q.Encode())
	return &s
}

// decodeJSON decodes a request body into dst. Unknown and read-only fields
// such as id or created_at are ignored.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
