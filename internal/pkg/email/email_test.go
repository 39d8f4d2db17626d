package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thikabizhub/bizhub-backend/internal/config"
)

func newTestService(t *testing.T, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(config.SMTPConfig{
		Host: "smtp.test", Port: 587, From: "no-reply@test", FromName: "ThikaBizHub",
	})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.backoff = time.Millisecond
	return impl
}

func TestSendInvite_RendersTemplate(t *testing.T) {
	var got []byte
	svc := newTestService(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.test:587", addr)
		assert.Equal(t, []string{"b@x.com"}, to)
		got = msg
		return nil
	})

	err := svc.SendInvite(context.Background(), InviteMessage{
		To:           "b@x.com",
		InviterName:  "Alice",
		InviteType:   "business",
		BusinessName: "Mama Mboga",
		Link:         "https://app.test/invite/abc",
		ExpiresAt:    time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	body := string(got)
	assert.Contains(t, body, "Subject: Alice invited you to join Mama Mboga on ThikaBizHub")
	assert.Contains(t, body, "https://app.test/invite/abc")
	assert.Contains(t, body, "23 October 2026")
}

func TestSendInvite_RetriesThenFails(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	})

	err := svc.SendInvite(context.Background(), InviteMessage{To: "b@x.com", InviterName: "A"})
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, maxRetries, calls)
}

func TestSendInvite_SkipsWithoutHost(t *testing.T) {
	svc := newTestService(t, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	})
	svc.cfg.Host = ""

	assert.NoError(t, svc.SendInvite(context.Background(), InviteMessage{To: "b@x.com"}))
}

func TestSendInvite_EscapesMessage(t *testing.T) {
	var got string
	svc := newTestService(t, func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		got = string(msg)
		return nil
	})

	require.NoError(t, svc.SendInvite(context.Background(), InviteMessage{
		To: "b@x.com", InviterName: "A", Message: "<script>x</script>",
	}))
	assert.False(t, strings.Contains(got, "<script>"))
}
