package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/util"
	"github.com/go-resty/resty/v2"
)

// DefaultSubmitTimeout bounds a single submission request.
const DefaultSubmitTimeout = 15 * time.Second

// Error variables for submitter failures
var (
	ErrMissingURL       = errors.New("contact: submission URL is required")
	ErrUnexpectedStatus = errors.New("contact: endpoint returned a non-success status")
)

// Submitter delivers a validated submission to its destination.
// Implementations make exactly one attempt; any error is reported to the user as a failure.
type Submitter interface {
	Submit(ctx context.Context, s models.Submission) error
}

// SubmitterFunc adapts a plain function to a Submitter.
type SubmitterFunc func(ctx context.Context, s models.Submission) error

// Submit calls f(ctx, s).
func (f SubmitterFunc) Submit(ctx context.Context, s models.Submission) error {
	return f(ctx, s)
}

// WebhookOpts holds configuration options for a WebhookSubmitter.
type WebhookOpts struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// WebhookOption defines a configuration option for a WebhookSubmitter.
type WebhookOption func(*WebhookOpts)

// WithWebhookURL sets the endpoint the form is posted to.
func WithWebhookURL(url string) WebhookOption {
	return func(o *WebhookOpts) {
		o.URL = url
	}
}

// WithWebhookTimeout sets the request timeout.
func WithWebhookTimeout(d time.Duration) WebhookOption {
	return func(o *WebhookOpts) {
		o.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each post.
func WithUserAgent(ua string) WebhookOption {
	return func(o *WebhookOpts) {
		o.UserAgent = ua
	}
}

// WebhookSubmitter posts the form as application/x-www-form-urlencoded to a remote
// endpoint, such as a spreadsheet-backed script. Any 2xx response is success.
type WebhookSubmitter struct {
	client *resty.Client
	url    string
}

// NewWebhookSubmitter creates a WebhookSubmitter.
func NewWebhookSubmitter(opts ...WebhookOption) (*WebhookSubmitter, error) {
	cfg := WebhookOpts{Timeout: DefaultSubmitTimeout, UserAgent: "CyberCore/1.0"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	slog.Debug("WebhookSubmitter created", "url", cfg.URL, "timeout", cfg.Timeout)

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &WebhookSubmitter{client: client, url: cfg.URL}, nil
}

// Submit posts the submission once. Redirects are followed by the client.
func (w *WebhookSubmitter) Submit(ctx context.Context, s models.Submission) error {
	requestID := util.GenerateSubmissionID()

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetFormData(map[string]string{
			string(models.FieldName):    s.Name,
			string(models.FieldPhone):   s.Phone,
			string(models.FieldMessage): s.Message,
			"timestamp":                 s.Timestamp,
		}).
		Post(w.url)
	if err != nil {
		slog.Error("WebhookSubmitter.Submit: request failed", "request_id", requestID, "error", err)
		return fmt.Errorf("failed to post submission %s: %w", requestID, err)
	}
	if !resp.IsSuccess() {
		slog.Error("WebhookSubmitter.Submit: unexpected status", "request_id", requestID, "status", resp.StatusCode())
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	slog.Info("Submission delivered", "request_id", requestID, "status", resp.StatusCode(), "duration", resp.Time())
	return nil
}
