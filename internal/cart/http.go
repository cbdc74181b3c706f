package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Post("/cart", s.add)
	r.Get("/cart/{customerID}", s.get)
	r.Post("/cart/{customerID}/checkout", s.checkout)
}

// addReq declares both casings clients are known to send; resolution prefers
// snake_case. quantity is optional and defaults to 1.
type addReq struct {
	CustomerID      *string `json:"customer_id"`
	CustomerIDCamel *string `json:"customerId"`
	ProductID       *int64  `json:"product_id"`
	ProductIDCamel  *int64  `json:"productId"`
	Quantity        *int    `json:"quantity"`
}

func (r addReq) resolve() (customerID string, productID int64, qty int, ok bool) {
	switch {
	case r.CustomerID != nil:
		customerID = *r.CustomerID
	case r.CustomerIDCamel != nil:
		customerID = *r.CustomerIDCamel
	}

	switch {
	case r.ProductID != nil:
		productID = *r.ProductID
	case r.ProductIDCamel != nil:
		productID = *r.ProductIDCamel
	}

	qty = 1
	if r.Quantity != nil {
		qty = *r.Quantity
	}

	return customerID, productID, qty, customerID != "" && productID != 0
}

type addResp struct {
	Message string     `json:"message"`
	Cart    []LineItem `json:"cart"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req addReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	customerID, productID, qty, ok := req.resolve()
	if !ok {
		kit.WriteError(w, http.StatusBadRequest, "customer_id and product_id are required")
		return
	}
	if qty < 1 {
		kit.WriteError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	items, err := s.Store.Add(r.Context(), customerID, productID, qty)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, addResp{
		Message: "Item added to cart",
		Cart:    items,
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	sum, err := s.Store.Get(r.Context(), customerID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	receipt, err := s.Store.Checkout(r.Context(), customerID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, receipt)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		kit.WriteError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrInsufficientStock):
		kit.WriteError(w, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, http.StatusBadRequest, "Cart is empty")
	default:
		s.Log.Error("cart store failed", zap.Error(err))
		kit.WriteError(w, http.StatusInternalServerError, "server error")
	}
}
