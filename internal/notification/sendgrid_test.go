package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smdata-dev/smdata/internal/notification"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMessage() notification.Message {
	return notification.Message{
		From:    "info@smdata.dev",
		To:      "info@smdata.dev",
		ReplyTo: "jane@example.com",
		Subject: "New Contact Form Submission from Jane Doe",
		Body:    "Name: Jane Doe\nPhone: Not provided",
	}
}

func TestSendGridSender_Endpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  notification.SendGridConfig
		want string
	}{
		{"global", notification.SendGridConfig{}, "https://api.sendgrid.com/v3/mail/send"},
		{"eu residency", notification.SendGridConfig{EUDataResidency: true}, "https://api.eu.sendgrid.com/v3/mail/send"},
		{"override wins", notification.SendGridConfig{EUDataResidency: true, APIHost: "http://proxy.local/"}, "http://proxy.local/v3/mail/send"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := notification.NewSendGridSender(tt.cfg, discardLogger())
			assert.Equal(t, tt.want, s.Endpoint())
		})
	}
}

func TestSendGridSender_Success(t *testing.T) {
	var gotAuth, gotPath string
	var payload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := notification.NewSendGridSender(notification.SendGridConfig{
		APIKey:  "SG.test",
		APIHost: srv.URL,
	}, discardLogger())

	res, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Empty(t, res.ErrorDetail)

	assert.Equal(t, "Bearer SG.test", gotAuth)
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "New Contact Form Submission from Jane Doe", payload["subject"])

	replyTo, ok := payload["reply_to"].(map[string]any)
	require.True(t, ok, "reply_to missing from payload")
	assert.Equal(t, "jane@example.com", replyTo["email"])

	contents, ok := payload["content"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 2, "plain text and html alternative")
}

func TestSendGridSender_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The provided authorization grant is invalid"}]}`))
	}))
	defer srv.Close()

	s := notification.NewSendGridSender(notification.SendGridConfig{
		APIKey:  "SG.bad",
		APIHost: srv.URL,
	}, discardLogger())

	res, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err, "delivery failures are reported in SendResult")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.ErrorDetail)
}

func TestSendGridSender_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := notification.NewSendGridSender(notification.SendGridConfig{
		APIKey:  "SG.test",
		APIHost: url,
	}, discardLogger())

	res, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.ErrorDetail, "sendgrid request failed")
}

func TestSendGridSender_MissingKey(t *testing.T) {
	s := notification.NewSendGridSender(notification.SendGridConfig{}, discardLogger())

	_, err := s.Send(context.Background(), testMessage())
	var ce *notification.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "sendgrid", ce.Backend)
}
