package mailer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/mailer"
)

type MailerService struct {
	log    *zap.Logger
	sender mailer.Sender
}

func NewMailerService(log *zap.Logger, sender mailer.Sender) *MailerService {
	return &MailerService{
		log:    log,
		sender: sender,
	}
}

// SendDailyBriefing delivers the generated briefing text to the operator.
func (m *MailerService) SendDailyBriefing(to, date, body string) error {
	mail := mailer.Mail{
		To:      to,
		Subject: fmt.Sprintf("Daily briefing %s", date),
		Body:    body,
	}

	if err := m.sender.Send(mail); err != nil {
		m.log.Error("Failed to send briefing email", zap.Error(err), zap.String("email", to))
		return err
	}

	m.log.Info("Briefing email sent", zap.String("email", to), zap.String("date", date))
	return nil
}

// SendDataQualityDigest mails a batch of data-quality findings. Used by
// operators who prefer email over the Kafka audit topic.
func (m *MailerService) SendDataQualityDigest(to string, findings []string) error {
	if len(findings) == 0 {
		return nil
	}
	body := "The following reservation records need attention:\n\n"
	for _, f := range findings {
		body += "  - " + f + "\n"
	}

	mail := mailer.Mail{
		To:      to,
		Subject: fmt.Sprintf("Data quality digest (%d findings)", len(findings)),
		Body:    body,
	}

	if err := m.sender.Send(mail); err != nil {
		m.log.Error("Failed to send data quality digest", zap.Error(err), zap.String("email", to))
		return err
	}

	m.log.Info("Data quality digest sent", zap.String("email", to), zap.Int("findings", len(findings)))
	return nil
}
