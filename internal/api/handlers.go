package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"techtoday.app/daily-digest/internal/core"
)

type APIHandler struct {
	catalog    core.CatalogProvider
	discussion *core.DiscussionService
}

func NewAPIHandler(catalog core.CatalogProvider, discussion *core.DiscussionService) *APIHandler {
	return &APIHandler{catalog: catalog, discussion: discussion}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

type ProductsResponse struct {
	Products []core.DisplayProduct `json:"products"`
}

// ListProductsHandler serves the normalized feed. An empty catalog is
// a success with an empty products array, not an error.
func (h *APIHandler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	feed := core.NewFeed()
	if err := feed.Load(r.Context(), h.catalog); err != nil {
		feedLoadsTotal.WithLabelValues(core.FeedFailed.String()).Inc()
		log.Printf("Error loading product feed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to fetch products",
			Message: feed.LoadError().Error(),
		})
		return
	}
	feedLoadsTotal.WithLabelValues(feed.State().String()).Inc()

	products := feed.Items()
	if products == nil {
		products = []core.DisplayProduct{}
	}
	writeJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// GetProductHandler serves one normalized product by id.
func (h *APIHandler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	record, err := h.catalog.GetProductByID(r.Context(), productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch product"})
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Product not found"})
		return
	}

	writeJSON(w, http.StatusOK, core.NormalizeProduct(*record))
}

// ProductDetailsHandler serves one detail panel for a product. The tab
// defaults to features; unknown tab values fall back to it as well.
func (h *APIHandler) ProductDetailsHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	record, err := h.catalog.GetProductByID(r.Context(), productID)
	if err != nil {
		log.Printf("Error getting product %s for details: %v", productID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch product"})
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Product not found"})
		return
	}

	tab := core.Tab(r.URL.Query().Get("tab"))
	panel := core.PresentDetail(core.NormalizeProduct(*record), tab)
	writeJSON(w, http.StatusOK, panel)
}

type DiscussionRequest struct {
	Product  core.DisplayProduct `json:"product"`
	Messages *[]core.Message     `json:"messages"`
}

// DiscussionHandler runs one stateless discussion turn: the client
// sends the product and the full conversation so far, and gets back
// one assistant message.
func (h *APIHandler) DiscussionHandler(w http.ResponseWriter, r *http.Request) {
	var req DiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if req.Messages == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Valid messages array is required"})
		return
	}

	reply, err := h.discussion.Answer(r.Context(), req.Product, *req.Messages)
	if err != nil {
		discussionTurnsTotal.WithLabelValues("failure").Inc()
		log.Printf("Error in discussion turn for product %s: %v", req.Product.ID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to process request"})
		return
	}

	discussionTurnsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, reply)
}
