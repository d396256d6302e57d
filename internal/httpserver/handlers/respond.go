package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{"message": msg})
}

// pageParam reads ?page=, clamped to 1.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// listPage is the envelope for every paginated listing: fixed page size,
// offset pagination, next/prev derived from the total count.
type listPage struct {
	Results interface{} `json:"results"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

func newListPage(results interface{}, total int64, page, perPage int) listPage {
	return listPage{
		Results: results,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: int64(page*perPage) < total,
		HasPrev: page > 1,
	}
}
