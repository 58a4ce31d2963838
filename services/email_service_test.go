package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailConfigEnabled(t *testing.T) {
	assert.False(t, MailConfig{}.Enabled())
	assert.False(t, MailConfig{Host: "smtp.example.com", Port: 587}.Enabled())
	assert.True(t, MailConfig{Host: "smtp.example.com", Port: 587, From: "league@example.com"}.Enabled())
}

func TestSendManagerCredentials(t *testing.T) {
	svc, err := NewEmailService(MailConfig{Host: "smtp.example.com", Port: 587, From: "league@example.com", LoginURL: "https://league.example.com"})
	require.NoError(t, err)

	var gotTo []string
	var gotSubject, gotBody string
	svc.send = func(to []string, subject, body string) error {
		gotTo, gotSubject, gotBody = to, subject, body
		return nil
	}

	require.NoError(t, svc.SendManagerCredentials("coach@lions.io", "Coach <Lions>", "Lions", "Xy7pQ2"))
	assert.Equal(t, []string{"coach@lions.io"}, gotTo)
	assert.Equal(t, "Your manager account for Lions", gotSubject)
	assert.Contains(t, gotBody, "Xy7pQ2")
	assert.Contains(t, gotBody, "coach@lions.io")
	assert.Contains(t, gotBody, "https://league.example.com")
	assert.Contains(t, gotBody, "Coach &lt;Lions&gt;")
}
