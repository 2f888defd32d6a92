package services

import (
	"ilumen-report/config"

	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"
)

const (
	FailureNotificationSubject = "Workflow Failure Alert"
	FailureNotificationBody    = "GitHub Actions workflow failed. Please check the logs."
)

// MailSender delivers a composed message. *mail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*mail.Message) error
}

// FailureNotifier emails the configured account when a scheduled run fails.
type FailureNotifier struct {
	cfg    config.MailerConfig
	sender MailSender
	log    *zap.Logger
}

// NewFailureNotifier uses cfg's STARTTLS dialer unless sender is given.
func NewFailureNotifier(cfg config.MailerConfig, sender MailSender, log *zap.Logger) *FailureNotifier {
	if sender == nil {
		sender = cfg.Dialer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FailureNotifier{cfg: cfg, sender: sender, log: log}
}

// Notify sends the fixed failure message. Errors are returned unchanged to
// the caller.
func (n *FailureNotifier) Notify() error {
	if err := n.cfg.Validate(); err != nil {
		return err
	}
	msg := n.cfg.NewMessage(FailureNotificationSubject, FailureNotificationBody)
	if err := n.sender.DialAndSend(msg); err != nil {
		return err
	}
	n.log.Info("failure notification sent",
		zap.String("to", n.cfg.Username),
		zap.String("host", n.cfg.Host))
	return nil
}
