// Package asset stores uploaded images on disk and serves them back with
// immutable caching. Every upload is normalized to PNG so the frontend only
// ever deals with one format.
package asset

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcboard/arcboard/backend-go/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse describes a stored asset. Width and Height let the client
// place the image shape at its natural size without another round trip.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles a multipart POST with a "file" field holding a PNG or JPEG.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	img, name, err := h.decodeUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	if err := h.savePNG(assetID, img); err != nil {
		slog.Error("store asset", "error", err, "asset", assetID)
		http.Error(w, "failed to store asset", http.StatusInternalServerError)
		return
	}

	bounds := img.Bounds()
	resp := UploadResponse{
		ID:     assetID,
		URL:    "/assets/" + assetID + ".png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Type:   "png",
		Name:   name,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) decodeUpload(w http.ResponseWriter, r *http.Request) (image.Image, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", fmt.Errorf("file too large (max 10MB)")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		return nil, "", fmt.Errorf("only PNG and JPEG images are supported")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image: %w", err)
	}
	return img, header.Filename, nil
}

func (h *Handler) savePNG(assetID string, img image.Image) error {
	path := filepath.Join(h.dir, assetID+".png")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Serve returns a handler for GET /assets/<id>.png. Asset ids are unique so
// the files never change after upload.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes a stored asset's file.
func (h *Handler) Delete(assetID string) error {
	path := filepath.Join(h.dir, assetID+".png")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("asset not found: %s", assetID)
	}
	return nil
}
