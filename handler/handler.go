package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"rocketshoes-cart/service"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
	log logrus.FieldLogger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, log logrus.FieldLogger) *Handler {
	return &Handler{svc: s, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	// Stock
	r.HandleFunc("/stock/{id}", h.GetStock).Methods("GET")
	r.HandleFunc("/stock/{id}", h.UpdateStock).Methods("PUT")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

type updateStockReq struct {
	Amount *int `json:"amount"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeSvcErr maps service errors to status codes; anything unknown is a 500 and gets logged.
func (h *Handler) writeSvcErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		requestLogger(r, h.log).WithError(err).Error("request failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// --- Handler ---

// CreateProduct handles POST /products
// body: { "title": "...", "image": "...", "price": 179.9, "stock": 3 }
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetStock handles GET /stock/{id}
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	st, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateStock handles PUT /stock/{id}
// body: { "amount": 5 }
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req updateStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Amount == nil {
		writeErr(w, http.StatusBadRequest, "amount required")
		return
	}
	if err := h.svc.UpdateStock(r.Context(), id, *req.Amount); err != nil {
		h.writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "amount": *req.Amount})
}
