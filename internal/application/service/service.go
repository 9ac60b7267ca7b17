// Package service orchestrates intake, validation, storage and listing of job
// applications.
package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hirepath/internal/application/intake"
	"hirepath/internal/application/metrics"
	"hirepath/internal/application/models"
	"hirepath/internal/application/query"
	"hirepath/internal/application/redact"
	"hirepath/internal/application/validation"
	dErrors "hirepath/pkg/domain-errors"
	"hirepath/pkg/platform/sentinel"
	"hirepath/pkg/requestcontext"
)

const (
	tracerName      = "hirepath/application"
	pdfContentType  = "application/pdf"
	defaultPageSize = 10

	resumeCleanupTimeout = 5 * time.Second
)

// Store is the append-only application record store.
type Store interface {
	Append(ctx context.Context, app *models.Application) (string, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
}

// ResumeStore persists resume blobs.
type ResumeStore interface {
	Save(ctx context.Context, file models.Attachment) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Validator checks a draft against schema and business rules.
type Validator interface {
	Validate(d *models.Draft, now time.Time) (*models.Submission, error)
}

// QueryEngine turns stored records into one listing page.
type QueryEngine interface {
	Query(records []*models.Application, q models.ListingQuery) models.ListingResult
}

// Service owns the accept-submission, listing, detail and export flows.
type Service struct {
	store        Store
	resumes      ResumeStore
	validator    Validator
	engine       QueryEngine
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	defaultLimit int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithValidator(v Validator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

func WithQueryEngine(e QueryEngine) Option {
	return func(s *Service) {
		s.engine = e
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithDefaultLimit sets the page size used when a listing query has none.
func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// New constructs a Service.
func New(store Store, resumes ResumeStore, opts ...Option) *Service {
	s := &Service{
		store:        store,
		resumes:      resumes,
		validator:    validation.New(),
		engine:       query.NewEngine(),
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
		defaultLimit: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit decodes, validates and stores a submission, returning the new
// application ID. Nothing is persisted unless every check passes; if the
// record append fails the already stored resume is removed again.
func (s *Service) Submit(ctx context.Context, raw models.RawSubmission) (string, error) {
	ctx, span := s.tracer.Start(ctx, "application.Submit")
	defer span.End()

	now := requestcontext.Now(ctx)

	draft, err := intake.Decode(raw)
	if err != nil {
		s.reject(ctx, span, metrics.OutcomeMalformed, err)
		return "", err
	}

	sub, err := s.validator.Validate(draft, now)
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if dErrors.HasCode(err, dErrors.CodeBusinessRule) {
			outcome = metrics.OutcomeBusinessRule
		}
		s.reject(ctx, span, outcome, err)
		return "", err
	}

	ref, err := s.resumes.Save(ctx, sub.Resume)
	if err != nil {
		s.storageFailure(ctx, span, "resume_store_failed", err)
		return "", dErrors.Wrap(err, storageCode(err), "failed to store resume")
	}

	id, err := s.store.Append(ctx, models.NewApplication(sub, ref, now))
	if err != nil {
		s.removeOrphanedResume(ctx, ref)
		s.storageFailure(ctx, span, "application_append_failed", err)
		return "", dErrors.Wrap(err, storageCode(err), "failed to store application")
	}

	span.SetAttributes(attribute.String("application.id", id))
	s.metrics.IncrementSubmission(metrics.OutcomeAccepted)
	s.logEvent(ctx, "application_accepted",
		"application_id", id,
		"email", redact.MaskEmail(sub.Email),
	)
	return id, nil
}

// removeOrphanedResume deletes a saved resume whose record never landed. It
// runs detached from the request so a cancelled or expired request still
// cleans up.
func (s *Service) removeOrphanedResume(ctx context.Context, ref string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resumeCleanupTimeout)
	defer cancel()

	if err := s.resumes.Delete(cleanupCtx, ref); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove orphaned resume",
			"request_id", requestcontext.RequestID(ctx),
			"resume_ref", ref,
			"error", err,
		)
	}
}

// List returns one redacted page of applications.
func (s *Service) List(ctx context.Context, q models.ListingQuery) (models.ListingResult, error) {
	ctx, span := s.tracer.Start(ctx, "application.List")
	defer span.End()
	start := time.Now()

	if !q.LimitSet && q.Limit == 0 {
		q.Limit = s.defaultLimit
	}

	records, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		s.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return models.ListingResult{}, dErrors.Wrap(err, storageCode(err), "failed to list applications")
	}

	result := s.engine.Query(records, q)
	span.SetAttributes(
		attribute.Int("listing.total", result.Total),
		attribute.Int("listing.page", result.Page),
	)
	s.metrics.ObserveListing(time.Since(start), len(result.Results))
	return result, nil
}

// Get returns the redacted view of one application.
func (s *Service) Get(ctx context.Context, id string) (*models.ApplicationView, error) {
	ctx, span := s.tracer.Start(ctx, "application.Get")
	defer span.End()

	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := redact.View(app)
	return &view, nil
}

// Export renders the full, unredacted record as a PDF.
func (s *Service) Export(ctx context.Context, id string) (*models.ExportFile, error) {
	ctx, span := s.tracer.Start(ctx, "application.Export")
	defer span.End()

	app, err := s.find(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.IncrementExport("not_found")
		}
		return nil, err
	}

	var buf bytes.Buffer
	if err := redact.RenderPDF(&buf, redact.NewDocument(app)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.metrics.IncrementExport("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export")
	}

	s.metrics.IncrementExport("ok")
	s.logEvent(ctx, "application_exported", "application_id", app.ID)
	return &models.ExportFile{
		Filename:    redact.Filename(app.ID),
		ContentType: pdfContentType,
		Body:        buf.Bytes(),
	}, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "applicationId is required")
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("application.id", id))

	app, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		s.logger.ErrorContext(ctx, "failed to load application",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", id,
			"error", err,
		)
		return nil, dErrors.Wrap(err, storageCode(err), "failed to load application")
	}
	return app, nil
}

func (s *Service) reject(ctx context.Context, span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("submission.outcome", outcome))
	s.metrics.IncrementSubmission(outcome)

	var fields []string
	if de, ok := dErrors.As(err); ok {
		fields = de.Fields.Fields()
		for _, field := range fields {
			for _, fe := range de.Fields[field] {
				s.metrics.IncrementViolation(field, fe.Type)
			}
		}
	}
	s.logEvent(ctx, "application_rejected",
		"outcome", outcome,
		"fields", fields,
	)
}

func (s *Service) storageFailure(ctx context.Context, span trace.Span, event string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, event)
	s.metrics.IncrementSubmission(metrics.OutcomeStorageFailed)
	s.logger.ErrorContext(ctx, event,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

// storageCode lets clients tell a backend outage (retryable) from a fault.
// A conflict on append means two records got the same ID.
func storageCode(err error) dErrors.Code {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return dErrors.CodeUnavailable
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.CodeInvariantViolation
	default:
		return dErrors.CodeInternal
	}
}

func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, append(attributes, "event", event)...)
	}
}
