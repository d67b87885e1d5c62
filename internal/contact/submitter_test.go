package contact

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/testutil"
	"github.com/BTreeMap/CyberCore/internal/twiliosms"
)

var sample = models.Submission{
	Name:      "Jo",
	Phone:     "+14155550123",
	Message:   "Hello",
	Timestamp: "3/4/2025, 5:05:06 PM",
}

func TestWebhookSubmitterPostsForm(t *testing.T) {
	rec := testutil.NewWebhookRecorder(t, http.StatusOK)
	sub, err := NewWebhookSubmitter(WithWebhookURL(rec.URL), WithUserAgent("test-agent"))
	require.NoError(t, err)

	require.NoError(t, sub.Submit(context.Background(), sample))

	reqs := rec.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "Jo", req.Form.Get("name"))
	assert.Equal(t, "+14155550123", req.Form.Get("phone"))
	assert.Equal(t, "Hello", req.Form.Get("message"))
	assert.Equal(t, "3/4/2025, 5:05:06 PM", req.Form.Get("timestamp"))
	assert.Equal(t, "test-agent", req.Header.Get("User-Agent"))
	assert.True(t, strings.HasPrefix(req.Header.Get("X-Request-ID"), "s_"))
}

func TestWebhookSubmitterNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		rec := testutil.NewWebhookRecorder(t, status)
		sub, err := NewWebhookSubmitter(WithWebhookURL(rec.URL))
		require.NoError(t, err)

		err = sub.Submit(context.Background(), sample)
		assert.ErrorIs(t, err, ErrUnexpectedStatus, "status %d", status)
		assert.Len(t, rec.Requests(), 1, "exactly one attempt for status %d", status)
	}
}

func TestWebhookSubmitterAcceptsAny2xx(t *testing.T) {
	rec := testutil.NewWebhookRecorder(t, http.StatusAccepted)
	sub, err := NewWebhookSubmitter(WithWebhookURL(rec.URL))
	require.NoError(t, err)
	assert.NoError(t, sub.Submit(context.Background(), sample))
}

func TestWebhookSubmitterNetworkFailure(t *testing.T) {
	rec := testutil.NewWebhookRecorder(t, http.StatusOK)
	url := rec.URL
	rec.Close()

	sub, err := NewWebhookSubmitter(WithWebhookURL(url), WithWebhookTimeout(time.Second))
	require.NoError(t, err)
	assert.Error(t, sub.Submit(context.Background(), sample))
}

func TestNewWebhookSubmitterRequiresURL(t *testing.T) {
	_, err := NewWebhookSubmitter()
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestTwilioSubmitter(t *testing.T) {
	mock := twiliosms.NewMockClient()
	sub, err := NewTwilioSubmitter(mock, "+15005550006")
	require.NoError(t, err)

	require.NoError(t, sub.Submit(context.Background(), sample))
	sent := mock.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15005550006", sent[0].To)
	assert.Contains(t, sent[0].Body, "Name: Jo")
	assert.Contains(t, sent[0].Body, "Message: Hello")

	mock.Err = errors.New("twilio down")
	assert.Error(t, sub.Submit(context.Background(), sample))
}

func TestNewTwilioSubmitterValidation(t *testing.T) {
	_, err := NewTwilioSubmitter(twiliosms.NewMockClient(), " ")
	assert.ErrorIs(t, err, ErrMissingRecipient)
	_, err = NewTwilioSubmitter(nil, "+1")
	assert.Error(t, err)
}

func TestFormatSMSWithoutMessage(t *testing.T) {
	s := sample
	s.Message = "  "
	assert.NotContains(t, FormatSMS(s), "Message:")
}
