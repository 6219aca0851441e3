package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	mailerService "github.com/ryokan-ops/stayboard/internal/service/mailer"
)

// DeliverService turns briefing events from the queue into outgoing mail.
type DeliverService struct {
	log              *zap.Logger
	mailer           *mailerService.MailerService
	defaultRecipient string
}

func NewDeliverService(log *zap.Logger, mailer *mailerService.MailerService, defaultRecipient string) *DeliverService {
	return &DeliverService{
		log:              log,
		mailer:           mailer,
		defaultRecipient: defaultRecipient,
	}
}

func (s *DeliverService) HandleBriefing(ctx context.Context, e kafkax.BriefingEvent) error {
	if e.Type != "daily_briefing" {
		s.log.Warn("Skipping unknown event type", zap.String("type", e.Type))
		return nil
	}
	if e.Body == "" {
		return fmt.Errorf("briefing %s has empty body", e.Date)
	}

	to := e.Recipient
	if to == "" {
		to = s.defaultRecipient
	}
	if to == "" {
		return fmt.Errorf("briefing %s has no recipient", e.Date)
	}

	return s.mailer.SendDailyBriefing(to, e.Date, e.Body)
}
