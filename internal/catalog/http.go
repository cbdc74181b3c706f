package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/search", s.search)
}

type listResp struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := intQuery(q.Get("page"), defaultPage)
	limit := intQuery(q.Get("limit"), defaultLimit)
	category := q.Get("category")

	items, total, err := s.Store.List(r.Context(), page, limit, category)
	if err != nil {
		s.Log.Error("list products failed", zap.Error(err))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, listResp{
		Products: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !ok {
		kit.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}

// search responds with a bare array: load-generation tooling pointed at the
// original API expects exactly that shape.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	items, err := s.Store.Search(r.Context(), q.Get("q"), q.Get("category"))
	if err != nil {
		s.Log.Error("search products failed", zap.Error(err))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, items)
}

// intQuery falls back to def on absent or malformed values instead of
// surfacing a client error.
func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
