package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/igdevx/image-service/pkg/imageasset"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// parts spill to disk. The service enforces the actual size ceiling.
const maxUploadMemory = 32 << 20

// UploadResponse is the response body for a successful upload
type UploadResponse struct {
	ImageID    string `json:"image_id"`
	FileName   string `json:"file_name"`
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
	SizeBytes  int64  `json:"size_bytes"`
	Message    string `json:"message"`
}

// ImageResponse is the response body for image metadata
type ImageResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	OwnerID     string    `json:"owner_id"`
	ProductID   string    `json:"product_id,omitempty"`
	StorageKey  string    `json:"storage_key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url"`
}

// ErrorResponse is the response body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// ImagesHandler handles HTTP requests for image assets
type ImagesHandler struct {
	service imageasset.Service
	logger  *slog.Logger
}

// NewImagesHandler creates a new images handler
func NewImagesHandler(service imageasset.Service, logger *slog.Logger) *ImagesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImagesHandler{
		service: service,
		logger:  logger,
	}
}

// Routes returns the routes for image assets
func (h *ImagesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload/profile", h.UploadProfileImage)
	r.Post("/upload/banner", h.UploadBannerImage)
	r.Post("/upload/product", h.UploadProductImage)

	r.Get("/", h.ListImages)
	r.Get("/{id}", h.GetImage)
	r.Get("/{id}/download", h.DownloadImage)
	r.Get("/user/{userID}", h.ListUserImages)
	r.Get("/user/{userID}/profile", h.GetUserProfileImage)
	r.Get("/user/{userID}/banner", h.GetUserBannerImage)
	r.Get("/product/{productID}", h.GetProductImage)

	r.Delete("/{id}", h.DeleteImage)
	r.Delete("/product/{productID}", h.DeleteProductImage)
	r.Delete("/user/{userID}", h.DeleteUserImages)

	return r
}

// UploadProfileImage handles POST /upload/profile
func (h *ImagesHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, imageasset.KindUserProfile)
}

// UploadBannerImage handles POST /upload/banner
func (h *ImagesHandler) UploadBannerImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, imageasset.KindUserBanner)
}

// UploadProductImage handles POST /upload/product
func (h *ImagesHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, imageasset.KindProduct)
}

func (h *ImagesHandler) upload(w http.ResponseWriter, r *http.Request, kind imageasset.ImageKind) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.renderBadRequest(w, r, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderBadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	req := imageasset.UploadImageRequest{
		Reader:      file,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Kind:        kind,
		OwnerID:     r.FormValue("userId"),
		ProductID:   r.FormValue("productId"),
	}

	result, err := h.service.UploadImage(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, UploadResponse{
		ImageID:    result.ImageID.String(),
		FileName:   header.Filename,
		StorageKey: result.StorageKey,
		URL:        result.URL,
		SizeBytes:  result.SizeBytes,
		Message:    "Image uploaded successfully",
	})
}

// GetImage handles GET /{id}
func (h *ImagesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	image, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, h.toImageResponse(image))
}

// ListImages handles GET /
func (h *ImagesHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, h.toImageResponses(images))
}

// ListUserImages handles GET /user/{userID}
func (h *ImagesHandler) ListUserImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImagesByOwner(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, h.toImageResponses(images))
}

// GetUserProfileImage handles GET /user/{userID}/profile
func (h *ImagesHandler) GetUserProfileImage(w http.ResponseWriter, r *http.Request) {
	h.getByOwnerAndKind(w, r, imageasset.KindUserProfile)
}

// GetUserBannerImage handles GET /user/{userID}/banner
func (h *ImagesHandler) GetUserBannerImage(w http.ResponseWriter, r *http.Request) {
	h.getByOwnerAndKind(w, r, imageasset.KindUserBanner)
}

func (h *ImagesHandler) getByOwnerAndKind(w http.ResponseWriter, r *http.Request, kind imageasset.ImageKind) {
	image, err := h.service.GetImageByOwnerAndKind(r.Context(), chi.URLParam(r, "userID"), kind)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, h.toImageResponse(image))
}

// GetProductImage handles GET /product/{productID}
func (h *ImagesHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.service.GetImageByProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, h.toImageResponse(image))
}

// DownloadImage handles GET /{id}/download
func (h *ImagesHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	reader, image, err := h.service.DownloadImage(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": image.FileName,
	}))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("streaming image failed", "image_id", id, "err", err)
	}
}

// DeleteImage handles DELETE /{id}
func (h *ImagesHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProductImage handles DELETE /product/{productID}
func (h *ImagesHandler) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteImageByProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUserImages handles DELETE /user/{userID}
func (h *ImagesHandler) DeleteUserImages(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOwnerImages(r.Context(), chi.URLParam(r, "userID")); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ImagesHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderBadRequest(w, r, "invalid image id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ImagesHandler) toImageResponse(image *imageasset.Image) ImageResponse {
	return ImageResponse{
		ID:          image.ID.String(),
		Kind:        string(image.Kind),
		OwnerID:     image.OwnerID,
		ProductID:   image.ProductID,
		StorageKey:  image.StorageKey,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		SizeBytes:   image.SizeBytes,
		CreatedAt:   image.CreatedAt,
		URL:         h.service.PublicURL(image),
	}
}

func (h *ImagesHandler) toImageResponses(images []*imageasset.Image) []ImageResponse {
	responses := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		responses = append(responses, h.toImageResponse(image))
	}
	return responses
}

func (h *ImagesHandler) renderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func (h *ImagesHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, imageasset.ErrInvalidImage):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
	case errors.Is(err, imageasset.ErrImageNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "image not found"})
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal server error"})
	}
}
