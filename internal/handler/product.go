package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/drive"
)

// ProductFetcher is implemented by catalog.Client. An interface here lets
// handler tests substitute a canned catalog.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, baseURL string) ([]map[string]any, error)
}

// ImageFetcher is implemented by drive.Fetcher.
type ImageFetcher interface {
	FetchImage(ctx context.Context, fileID, size string) (*drive.Image, error)
}

// ProductHandler serves the catalog proxy and the image proxy. Both work
// without the document store, which is what keeps degraded mode useful.
type ProductHandler struct {
	products ProductFetcher
	images   ImageFetcher
	// publicBaseURL overrides the request-derived rewrite base when the
	// PUBLIC_BASE_URL config is set.
	publicBaseURL string
	logger        *slog.Logger
}

func NewProductHandler(products ProductFetcher, images ImageFetcher, publicBaseURL string, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products:      products,
		images:        images,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// HandleProducts proxies the catalog.
//
// HTTP: GET /api/products
// 200 [product] | 500 upstream failure
func (h *ProductHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.FetchProducts(r.Context(), h.baseURL(r))
	if err != nil {
		h.logger.Error("catalog fetch failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleImage proxies one Drive image.
//
// HTTP: GET /api/products/image/{fileID}?size=w1000
// 200 image bytes | 404 no template succeeded
func (h *ProductHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	if fileID == "" {
		writeError(w, apperror.ValidationFailed("fileID", "file id is required"))
		return
	}
	size := r.URL.Query().Get("size")

	img, err := h.images.FetchImage(r.Context(), fileID, size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

// baseURL picks the base for rewritten image links: the configured public
// URL when present, otherwise the scheme and host of the inbound request.
func (h *ProductHandler) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
