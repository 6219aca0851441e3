package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	"github.com/ryokan-ops/stayboard/internal/mailer"
	mailerService "github.com/ryokan-ops/stayboard/internal/service/mailer"
)

type captureSender struct {
	sent []mailer.Mail
}

func (c *captureSender) Send(m mailer.Mail) error {
	c.sent = append(c.sent, m)
	return nil
}

func newDeliver(sender *captureSender) *DeliverService {
	svc := mailerService.NewMailerService(zap.NewNop(), sender)
	return NewDeliverService(zap.NewNop(), svc, "ops@stayboard.local")
}

func TestHandleBriefingSendsMail(t *testing.T) {
	sender := &captureSender{}
	svc := newDeliver(sender)

	err := svc.HandleBriefing(context.Background(), kafkax.BriefingEvent{
		Type:      "daily_briefing",
		Date:      "2026-08-31",
		Recipient: "manager@example.com",
		Body:      "Quiet day ahead.",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "manager@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "2026-08-31")
	assert.Equal(t, "Quiet day ahead.", sender.sent[0].Body)
}

func TestHandleBriefingDefaultRecipient(t *testing.T) {
	sender := &captureSender{}
	svc := newDeliver(sender)

	err := svc.HandleBriefing(context.Background(), kafkax.BriefingEvent{
		Type: "daily_briefing",
		Date: "2026-08-31",
		Body: "Busy weekend coming.",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ops@stayboard.local", sender.sent[0].To)
}

func TestHandleBriefingSkipsUnknownType(t *testing.T) {
	sender := &captureSender{}
	svc := newDeliver(sender)

	err := svc.HandleBriefing(context.Background(), kafkax.BriefingEvent{Type: "noise"})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandleBriefingRejectsEmptyBody(t *testing.T) {
	sender := &captureSender{}
	svc := newDeliver(sender)

	err := svc.HandleBriefing(context.Background(), kafkax.BriefingEvent{
		Type: "daily_briefing",
		Date: "2026-08-31",
	})
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}
