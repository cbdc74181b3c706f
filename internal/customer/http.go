package customer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Registry Registry
	Log      *zap.Logger

	// Limiter, when set, throttles customer creation per client IP.
	// Create is the only endpoint that allocates unbounded state.
	Limiter *kit.IPRateLimiter
}

func (s *Server) Register(r chi.Router) {
	if s.Limiter != nil {
		r.With(s.Limiter.Middleware).Post("/customers", s.create)
	} else {
		r.Post("/customers", s.create)
	}
	r.Get("/customers/{id}", s.get)
}

type createReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// An empty or absent body is fine, every field has a default.
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		kit.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	c, err := s.Registry.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		s.Log.Error("create customer failed", zap.Error(err))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, ok, err := s.Registry.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get customer failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !ok {
		kit.WriteError(w, http.StatusNotFound, "Customer not found")
		return
	}

	kit.WriteJSON(w, http.StatusOK, c)
}
