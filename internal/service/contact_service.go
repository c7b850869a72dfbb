package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smdata-dev/smdata/internal/metrics"
	"github.com/smdata-dev/smdata/internal/notification"
	"github.com/smdata-dev/smdata/internal/storage"
)

const (
	tracerName           = "github.com/smdata-dev/smdata/internal/service"
	defaultNotifyTimeout = 15 * time.Second
)

// ContactForm holds the raw values posted by a visitor.
type ContactForm struct {
	Name     string
	Email    string
	Phone    string
	Comments string
	// RemoteAddr is only used for verbose logging.
	RemoteAddr string
}

// SubmitResult describes a stored submission and the outcome of its notification.
type SubmitResult struct {
	Submission *storage.Submission
	// Notified is true when delivery succeeded and the flag was persisted.
	Notified bool
	Delivery notification.SendResult
}

// ContactService defines the business logic interface for the contact form.
type ContactService interface {
	// Submit validates and stores the form, then attempts one notification.
	// It returns *ValidationError or *PersistenceError; delivery failures are
	// reported in SubmitResult only.
	Submit(ctx context.Context, form ContactForm) (*SubmitResult, error)
	Get(ctx context.Context, id string) (*storage.Submission, error)
	List(ctx context.Context, filter storage.ListFilter) ([]*storage.Submission, error)
	// TestNotification sends a fixed message through the configured sender.
	TestNotification(ctx context.Context) (notification.SendResult, error)
}

// ContactOptions configures a ContactService.
type ContactOptions struct {
	Composer Composer
	// NotifyTimeout bounds a single Send call. Zero means 15s.
	NotifyTimeout time.Duration
	// Verbose adds request and backend diagnostics to the logs.
	Verbose bool
}

type contactService struct {
	store   storage.SubmissionStore
	sender  notification.Sender
	metrics *metrics.Metrics
	opts    ContactOptions
	logger  *slog.Logger
}

// NewContactService returns a ContactService. m may be nil.
func NewContactService(
	store storage.SubmissionStore,
	sender notification.Sender,
	m *metrics.Metrics,
	opts ContactOptions,
	logger *slog.Logger,
) ContactService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	return &contactService{
		store:   store,
		sender:  sender,
		metrics: m,
		opts:    opts,
		logger:  logger,
	}
}

func (s *contactService) Submit(ctx context.Context, form ContactForm) (*SubmitResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "contact.submit")
	defer span.End()

	in := storage.NewSubmission{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Message: form.Comments,
	}.Normalize()

	if s.opts.Verbose {
		s.logger.Info("contact form received",
			"remote_addr", form.RemoteAddr,
			"name_len", len(in.Name),
			"email_len", len(in.Email),
			"phone_len", len(in.Phone),
			"message_len", len(in.Message),
		)
	}

	if err := in.Validate(); err != nil {
		s.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		span.SetStatus(codes.Error, "validation failed")
		s.logger.Debug("contact form rejected", "error", err)
		return nil, err
	}

	sub, err := s.store.Create(ctx, in)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			s.metrics.ObserveSubmission(metrics.OutcomeInvalid)
			span.SetStatus(codes.Error, "validation failed")
			return nil, err
		}
		s.metrics.ObserveSubmission(metrics.OutcomePersistFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.logger.Error("failed to store contact submission", "error", err)
		return nil, &PersistenceError{Op: "create submission", Err: err}
	}
	s.metrics.ObserveSubmission(metrics.OutcomeCreated)
	span.SetAttributes(attribute.String("submission.id", sub.ID))
	s.logger.Info("contact submission stored", "id", sub.ID)

	// The submission is durable from here on; a client disconnect must not
	// abort its notification.
	notifyCtx := context.WithoutCancel(ctx)

	result := &SubmitResult{Submission: sub}
	result.Delivery = s.notify(notifyCtx, sub)
	if !result.Delivery.OK {
		return result, nil
	}

	if err := s.store.MarkNotified(notifyCtx, sub.ID); err != nil {
		s.logger.Error("notification sent but flag not persisted", "id", sub.ID, "error", err)
		return result, nil
	}
	sub.Notified = true
	result.Notified = true
	return result, nil
}

// notify sends the notification for sub and never fails: misconfiguration,
// delivery failures and sender panics all end up in the returned SendResult.
func (s *contactService) notify(ctx context.Context, sub *storage.Submission) notification.SendResult {
	backend := s.sender.Name()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "contact.notify",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("submission.id", sub.ID),
			attribute.String("notification.backend", backend),
		),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	defer cancel()

	msg := s.opts.Composer.Compose(sub)

	start := time.Now()
	res, err := s.send(ctx, msg)
	elapsed := time.Since(start)

	label := metrics.ResultSent
	switch {
	case err != nil:
		label = metrics.ResultError
		res = notification.Failed(0, "%v", err)
	case !res.OK:
		label = metrics.ResultFailed
	}
	s.metrics.ObserveNotification(backend, label, elapsed)

	if res.OK {
		span.SetAttributes(attribute.Int("notification.status_code", res.StatusCode))
		s.logger.Info("contact notification sent", "id", sub.ID, "backend", backend, "duration", elapsed)
		return res
	}

	nerr := &NotificationError{SubmissionID: sub.ID, Backend: backend, Detail: res.ErrorDetail}
	span.RecordError(nerr)
	span.SetStatus(codes.Error, label)

	attrs := []any{"id", sub.ID, "backend", backend, "error", nerr}
	if s.opts.Verbose {
		attrs = append(attrs,
			"status_code", res.StatusCode,
			"recipient", msg.To,
			"from", msg.From,
			"timeout", s.opts.NotifyTimeout,
			"duration", elapsed,
		)
	}
	s.logger.Warn("contact notification not delivered", attrs...)
	return res
}

// send calls the sender, converting a panic into an error.
func (s *contactService) send(ctx context.Context, msg notification.Message) (res notification.SendResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	return s.sender.Send(ctx, msg)
}

func (s *contactService) Get(ctx context.Context, id string) (*storage.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, fmt.Errorf("getting submission %q: %w", id, err)
	}
	return sub, nil
}

func (s *contactService) List(ctx context.Context, filter storage.ListFilter) ([]*storage.Submission, error) {
	subs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

func (s *contactService) TestNotification(ctx context.Context) (notification.SendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	defer cancel()

	c := s.opts.Composer
	msg := notification.Message{
		From:    c.From,
		To:      c.Recipient,
		Subject: "Test notification from " + c.SiteName,
		Body:    "This is a test message from the " + c.SiteName + " contact form. If you received it, notifications are working.",
	}

	res, err := s.send(ctx, msg)
	if err != nil {
		return notification.SendResult{}, fmt.Errorf("sending test notification: %w", err)
	}
	s.logger.Info("test notification attempted", "backend", s.sender.Name(), "ok", res.OK, "status_code", res.StatusCode)
	return res, nil
}
