package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/zapvendas/internal/entity"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func testSender() *EmailSender {
	return NewEmailSender("smtp.example.com", 587, "bot", "secret", "bot@shop.example", "sales@shop.example", "Urban Threads")
}

func TestNotifyHandoffRendersLead(t *testing.T) {
	d := &recordingDialer{}
	event := entity.LeadEvent{
		Type:         entity.EventHandoffRequested,
		LeadID:       "lead-1",
		PhoneNumber:  "15551234567",
		CustomerName: "John",
		City:         "Austin",
		Message:      "can I talk to a human?",
		OccurredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, testSender().send(context.Background(), d, event))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"sales@shop.example"}, m.GetHeader("To"))
	assert.Equal(t, []string{"🙋 John wants to talk to a person"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	body := buf.String()
	assert.Contains(t, body, "+15551234567")
	assert.Contains(t, body, "Austin")
	assert.Contains(t, body, "Urban Threads")
}

func TestNotifyHandoffUnknownCustomer(t *testing.T) {
	m, err := testSender().buildHandoffMessage(entity.LeadEvent{PhoneNumber: "15551234567"})
	require.NoError(t, err)
	assert.Equal(t, []string{"🙋 +15551234567 wants to talk to a person"}, m.GetHeader("Subject"))
}

func TestNotifyHandoffDialError(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	err := testSender().send(context.Background(), d, entity.LeadEvent{PhoneNumber: "15551234567"})
	assert.ErrorContains(t, err, "send handoff email")
}
