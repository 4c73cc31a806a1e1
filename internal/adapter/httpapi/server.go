package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/tarana-storefront/internal/catalog"
	"github.com/example/tarana-storefront/internal/domain"
	"github.com/example/tarana-storefront/internal/usecase"
)

type Server struct {
	Router   *mux.Router
	Store    *usecase.CartStore
	Catalog  *catalog.Catalog
	Checkout usecase.Checkout
	log      *slog.Logger
}

// NewServer wires the storefront routes. webDir is served at "/" when set.
func NewServer(store *usecase.CartStore, cat *catalog.Catalog, co usecase.Checkout, webDir string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{Router: mux.NewRouter(), Store: store, Catalog: cat, Checkout: co, log: log}
	s.Router.Use(s.requestLogger)

	s.Router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.Router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := s.Router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)

	api.HandleFunc("/cart", s.handleGetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.handleClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.handleAddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{cartId}", s.handleRemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/open", s.handleOpen).Methods(http.MethodPost)
	api.HandleFunc("/cart/close", s.handleClose).Methods(http.MethodPost)
	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)

	if webDir != "" {
		s.Router.PathPrefix("/").Handler(http.FileServer(http.Dir(webDir)))
	}
	return s
}

type productView struct {
	domain.Product
	Discount int  `json:"discount"`
	InCart   bool `json:"inCart"`
}

type addItemRequest struct {
	ProductID *int64 `json:"productId"`
}

type addItemResponse struct {
	Added bool             `json:"added"`
	Item  *domain.CartItem `json:"item,omitempty"`
	Cart  domain.Snapshot  `json:"snapshot"`
}

type checkoutResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.Store.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "hydrating"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.Catalog.Filter(q.Get("category"), q.Get("q")))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	p, ok := s.Catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, productView{Product: p, Discount: catalog.Discount(p), InCart: s.Store.InCart(id)})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Categories())
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

// handleAddItem answers 200 even when the cart is full; the client reads
// "added" and the unchanged snapshot.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	p, ok := s.Catalog.Get(*req.ProductID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	resp := addItemResponse{}
	if item, added := s.Store.AddToCart(r.Context(), p); added {
		resp.Added = true
		resp.Item = &item
	}
	resp.Cart = s.Store.Snapshot()
	writeJSON(w, http.StatusOK, resp)
}

// handleRemoveItem treats an unparsable id like an unknown one.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if id, err := strconv.ParseFloat(mux.Vars(r)["cartId"], 64); err == nil {
		s.Store.RemoveFromCart(r.Context(), id)
	}
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.Store.ClearCart(r.Context())
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	s.Store.OpenCart()
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.Store.CloseCart()
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

// handleCheckout hands the cart off to the messaging link and closes the
// sidebar. The cart itself is left as is.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	msg, link, err := s.Checkout.Handoff(s.Store.Snapshot())
	if errors.Is(err, usecase.ErrEmptyCart) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "cart is empty"})
		return
	}
	if err != nil {
		s.log.Error("checkout failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	s.Store.CloseCart()
	writeJSON(w, http.StatusOK, checkoutResponse{Message: msg, URL: link})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
