// Package handler exposes the public volunteer endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"aakseva/internal/volunteer/service"
	dErrors "aakseva/pkg/domain-errors"
	"aakseva/pkg/platform/httputil"
	"aakseva/pkg/requestcontext"
)

// maxUploadBytes caps the whole multipart request body. ParseMultipartForm's
// argument is only an in-memory threshold (larger bodies spill to temp
// files), so the cap is enforced with http.MaxBytesReader.
const maxUploadBytes = 10 << 20

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public volunteer routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/volunteers", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, "volunteer service is healthy")
}

// Create registers a volunteer. Accepts multipart form data with an optional
// "image" file, or a plain JSON body when there is no image to upload.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, cleanup, err := h.parseRegistration(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected volunteer registration payload",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	defer cleanup()

	v, err := h.service.Register(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to register volunteer",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "volunteer registered",
		"volunteer_id", v.ID,
		"unique_id", v.UniqueID,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteData(w, http.StatusCreated, "volunteer registered successfully", v)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list volunteers",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(vs), vs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "volunteer not found"))
		return
	}

	v, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", v)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "volunteer not found"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "failed to delete volunteer",
			"volunteer_id", id,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "volunteer deleted",
		"volunteer_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteMessage(w, "volunteer deleted successfully")
}

func (h *Handler) parseRegistration(w http.ResponseWriter, r *http.Request) (service.RegisterInput, func(), error) {
	noop := func() {}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return service.RegisterInput{}, noop, dErrors.New(dErrors.CodeBadRequest, "image upload too large")
			}
			return service.RegisterInput{}, noop, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form")
		}
		input := service.RegisterInput{
			Name:     r.FormValue("name"),
			AAKNo:    r.FormValue("aakNo"),
			MobileNo: r.FormValue("mobileNo"),
			Address:  r.FormValue("address"),
		}
		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			input.Image = file
			input.ImageFilename = header.Filename
			return input, func() { _ = file.Close() }, nil
		case err == http.ErrMissingFile:
			return input, noop, nil
		default:
			return service.RegisterInput{}, noop, dErrors.New(dErrors.CodeBadRequest, "invalid image upload")
		}
	}

	var body struct {
		Name     string `json:"name"`
		AAKNo    string `json:"aakNo"`
		MobileNo string `json:"mobileNo"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return service.RegisterInput{}, noop, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return service.RegisterInput{
		Name:     body.Name,
		AAKNo:    body.AAKNo,
		MobileNo: body.MobileNo,
		Address:  body.Address,
	}, noop, nil
}
