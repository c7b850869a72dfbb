package notification_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smdata-dev/smdata/internal/notification"
)

func TestSMTPSender_MissingHost(t *testing.T) {
	s := notification.NewSMTPSender(notification.SMTPConfig{Port: 587})

	_, err := s.Send(context.Background(), testMessage())
	var ce *notification.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "smtp", ce.Backend)
	assert.Contains(t, ce.Reason, "EMAIL_HOST")
}

func TestSMTPSender_InvalidFrom(t *testing.T) {
	s := notification.NewSMTPSender(notification.SMTPConfig{Host: "127.0.0.1", Port: 25})

	msg := testMessage()
	msg.From = "not an address"

	_, err := s.Send(context.Background(), msg)
	var ce *notification.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Reason, "from")
}

func TestSMTPSender_UnreachableServer(t *testing.T) {
	// Grab a free port and release it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := notification.NewSMTPSender(notification.SMTPConfig{
		Host:       "127.0.0.1",
		Port:       port,
		Encryption: "none",
	})

	res, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.ErrorDetail, "smtp delivery")
}
