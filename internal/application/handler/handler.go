package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hirepath/internal/application/intake"
	"hirepath/internal/application/models"
	"hirepath/internal/platform/middleware"
	dErrors "hirepath/pkg/domain-errors"
	"hirepath/pkg/platform/httputil"
)

const (
	resumeField = "resume"
	// Room for the text fields and multipart framing on top of the resume.
	formOverhead = 1 << 20
)

// Service defines the application operations exposed over HTTP.
type Service interface {
	Submit(ctx context.Context, raw models.RawSubmission) (string, error)
	List(ctx context.Context, q models.ListingQuery) (models.ListingResult, error)
	Get(ctx context.Context, id string) (*models.ApplicationView, error)
	Export(ctx context.Context, id string) (*models.ExportFile, error)
}

// Handler handles job application endpoints.
type Handler struct {
	service        Service
	logger         *slog.Logger
	maxResumeBytes int64
}

// New creates a new application Handler. maxResumeBytes bounds the upload.
func New(service Service, logger *slog.Logger, maxResumeBytes int64) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		maxResumeBytes: maxResumeBytes,
	}
}

// Register registers the application routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/application", h.handleSubmit)
	r.Get("/applications", h.handleList)
	r.Get("/applications/{id}", h.handleGet)
	r.Post("/export-pdf", h.handleExport)
}

type submitResponse struct {
	Success       bool   `json:"success"`
	ApplicationID string `json:"applicationId"`
}

type exportRequest struct {
	ApplicationID string `json:"applicationId"`
}

// handleSubmit accepts a multipart form with the text fields and one resume.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	limit := h.maxResumeBytes + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		h.logger.WarnContext(ctx, "invalid application form",
			"request_id", requestID,
			"error", err.Error(),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeMalformedInput, "invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	raw, err := readSubmission(r.MultipartForm)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read uploaded resume",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read upload"))
		return
	}

	id, err := h.service.Submit(ctx, raw)
	if err != nil {
		h.logFailure(ctx, "submit application", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, submitResponse{Success: true, ApplicationID: id})
}

// handleList returns one redacted page. Query: search, sort, page, limit.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseListingQuery(r)
	if err != nil {
		h.logFailure(ctx, "list applications", err)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.logFailure(ctx, "list applications", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "get application", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// handleExport streams the unredacted PDF for one application.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req exportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, formOverhead)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid export request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	file, err := h.service.Export(ctx, req.ApplicationID)
	if err != nil {
		h.logFailure(ctx, "export application", err)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	requestID := middleware.GetRequestID(ctx)
	if de, ok := dErrors.As(err); ok && httputil.StatusForCode(de.Code) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestID,
			"code", string(de.Code),
			"fields", de.Fields.Fields(),
		)
		return
	}
	h.logger.ErrorContext(ctx, op+" failed",
		"request_id", requestID,
		"error", err.Error(),
	)
}

func readSubmission(form *multipart.Form) (models.RawSubmission, error) {
	raw := models.RawSubmission{Fields: make(map[string]string, len(form.Value))}
	for key, values := range form.Value {
		if len(values) > 0 {
			raw.Fields[key] = values[0]
		}
	}
	for _, header := range form.File[resumeField] {
		data, err := readPart(header)
		if err != nil {
			return models.RawSubmission{}, err
		}
		raw.Files = append(raw.Files, models.Attachment{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return raw, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", header.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
	}
	return data, nil
}

func parseListingQuery(r *http.Request) (models.ListingQuery, error) {
	values := r.URL.Query()
	q := models.ListingQuery{
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   models.SortKey(strings.ToLower(strings.TrimSpace(values.Get("sort")))),
	}

	fields := dErrors.FieldErrors{}
	q.Page = parseInt(values.Get("page"), "page", fields)
	if raw := values.Get("limit"); strings.TrimSpace(raw) != "" {
		q.Limit = parseInt(raw, "limit", fields)
		q.LimitSet = true
	}
	if len(fields) > 0 {
		return models.ListingQuery{}, dErrors.WithFields(dErrors.CodeMalformedInput, "invalid listing query", fields)
	}
	return q, nil
}

// parseInt returns 0 for an absent value so the caller's defaults apply.
func parseInt(raw, field string, fields dErrors.FieldErrors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields.Add(field, intake.KindParse, fmt.Sprintf("%s must be an integer", field))
		return 0
	}
	return n
}
