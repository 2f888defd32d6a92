package config

import (
	"crypto/tls"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// MailerConfig holds the SMTP relay settings used for failure notifications.
type MailerConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	SkipTLSVerify bool
}

var mailer = MailerConfig{}

// ReloadMailerConfig re-reads the SMTP settings from the environment. Call it
// after LoadEnv so values from .env are picked up.
func ReloadMailerConfig() MailerConfig {
	port, _ := strconv.Atoi(GetEnvDefault("EMAIL_PORT", ""))
	mailer = MailerConfig{
		Host:          GetEnvDefault("EMAIL_HOST", ""),
		Port:          port,
		Username:      GetEnvDefault("EMAIL_USERNAME", ""),
		Password:      GetEnvDefault("EMAIL_PASSWORD", ""),
		SkipTLSVerify: GetEnvDefault("EMAIL_SKIP_TLS_VERIFY", "") == "1",
	}
	return mailer
}

// Mailer returns the settings loaded by the last ReloadMailerConfig call.
func Mailer() MailerConfig {
	return mailer
}

// Validate reports the first missing setting.
func (c MailerConfig) Validate() error {
	switch {
	case c.Host == "":
		return &ConfigurationError{Field: "EMAIL_HOST", Reason: "smtp host not configured"}
	case c.Port <= 0:
		return &ConfigurationError{Field: "EMAIL_PORT", Reason: "smtp port not configured"}
	case c.Username == "":
		return &ConfigurationError{Field: "EMAIL_USERNAME", Reason: "smtp username not configured"}
	}
	return nil
}

// NewMessage builds a plain-text message sent from the configured account to
// itself.
func (c MailerConfig) NewMessage(subject, body string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", c.Username)
	m.SetHeader("To", c.Username)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Dialer returns a dialer that requires STARTTLS.
func (c MailerConfig) Dialer() *mail.Dialer {
	d := mail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         c.Host,
		InsecureSkipVerify: c.SkipTLSVerify,
	}
	return d
}
