package mailer

import (
	"fmt"
	"net/smtp"

	"zapbot/internal/models"

	"github.com/sirupsen/logrus"
)

// Mailer sends the optional catalog-request confirmation email. Delivery
// is best-effort: failures are logged, never propagated to the flow.
type Mailer struct {
	cfg    models.SMTPConfig
	logger *logrus.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. When credentials are absent the returned mailer
// silently skips every send.
func New(cfg models.SMTPConfig, logger *logrus.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.To != ""
}

// NotifyCatalogRequest emails the sales inbox about a new catalog lead.
func (m *Mailer) NotifyCatalogRequest(lead *models.Lead) {
	if !m.Enabled() {
		m.logger.Debug("SMTP not configured, skipping catalog notification")
		return
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	subject := fmt.Sprintf("Novo pedido de catálogo: %s (%s)", lead.Name, lead.Company)
	body := fmt.Sprintf(
		"Nome: %s\nEmpresa: %s\nPerfil: %s\nTelefone: %s\nE-mail: %s\nEndereço: %s\n",
		lead.Name, lead.Company, lead.Profile, lead.ContactPhone, lead.Email, lead.Address,
	)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		from, m.cfg.To, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := m.send(addr, auth, from, []string{m.cfg.To}, msg); err != nil {
		m.logger.WithError(err).Warn("Failed to send catalog notification email")
		return
	}

	m.logger.WithField("lead_id", lead.ID).Info("Catalog notification email sent")
}
