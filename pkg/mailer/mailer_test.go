package mailer

import (
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBuildsEnvelope(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := New(Config{
		Host:     "smtp.example.edu",
		Port:     587,
		FromName: "LoR Tracker",
		FromAddr: "noreply@example.edu",
	}, zerolog.Nop())
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send(Message{
		To:      "student@example.edu",
		Subject: "Resubmission requested",
		Body:    "<p>hi</p>",
	}))

	assert.Equal(t, "smtp.example.edu:587", gotAddr)
	assert.Equal(t, "noreply@example.edu", gotFrom)
	assert.Equal(t, []string{"student@example.edu"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Resubmission requested")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
	assert.Contains(t, string(gotMsg), "<p>hi</p>")
}

func TestSendRequiresRecipient(t *testing.T) {
	m := New(Config{Host: "h", Port: 25, FromAddr: "a@b"}, zerolog.Nop())
	assert.Error(t, m.Send(Message{Subject: "s"}))
}

func TestRenderBodyEscapes(t *testing.T) {
	body, err := RenderBody(BodyData{
		Greeting:     "Dear student",
		Line:         "Your draft was approved",
		Remark:       "<script>alert(1)</script>",
		SubmissionID: 7,
		Deadline:     "2026-06-01",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Your draft was approved")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "Submission #7")
}
