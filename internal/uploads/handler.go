package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mirojov/clubhub/internal/telemetry/metrics"
	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type imageStore interface {
	Save(ctx context.Context, content io.Reader) (string, error)
	Open(ctx context.Context, name string) (*os.File, error)
}

type uploadResponse struct {
	URL string `json:"url"`
}

type Handler struct {
	store   imageStore
	metrics *metrics.Manager
}

func NewHandler(store imageStore, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:   store,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/admin/uploads/image", handler.handleUpload).
		Methods("POST", "OPTIONS").Name("upload-image")
	mainRouter.HandleFunc("/api/uploads/{name}", handler.handleGet).
		Methods("GET", "OPTIONS").Name("get-upload")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "uploadsHandler.upload")
	defer span.End()

	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		log.Errorf("upload image, parse multipart form: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid multipart form or file too big")
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		pkg.WriteAPIError(w, http.StatusBadRequest, "image file missing")
		return
	}
	defer file.Close()

	log.Debugf("image upload incoming: %s [%d bytes]", fileHeader.Filename, fileHeader.Size)

	name, err := handler.store.Save(ctx, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrImageTooBig):
			pkg.WriteAPIError(w, http.StatusRequestEntityTooLarge, "image too big")
		case errors.Is(err, ErrUnsupportedImageType):
			pkg.WriteAPIError(w, http.StatusBadRequest, "unsupported image type")
		default:
			log.Errorf("save uploaded image: %s", err)
			pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to save image")
		}
		return
	}

	handler.metrics.CounterImageUploads.Inc()

	pkg.WriteJSON(w, http.StatusCreated, uploadResponse{
		URL: fmt.Sprintf("/api/uploads/%s", name),
	})
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "uploadsHandler.get")
	defer span.End()

	name := mux.Vars(r)["name"]

	file, err := handler.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		log.Errorf("open image [%s]: %s", name, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		log.Errorf("stat image [%s]: %s", name, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to get image")
		return
	}

	http.ServeContent(w, r, name, stat.ModTime(), file)
}
