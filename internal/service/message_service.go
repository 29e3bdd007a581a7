package service

import (
	"context"
	"fmt"
	"time"

	"zapbot/internal/errors"
	"zapbot/internal/flow"
	"zapbot/internal/leads"
	"zapbot/internal/mailer"
	"zapbot/internal/metrics"
	"zapbot/internal/models"
	"zapbot/internal/session"
	"zapbot/internal/validation"
	"zapbot/pkg/zapi"

	"github.com/sirupsen/logrus"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// MessageService handles one inbound webhook event end to end.
type MessageService interface {
	// ProcessWebhook extracts the event, advances the conversation and
	// performs the resulting side effects. It never returns an error for
	// malformed input; the gateway must always be acknowledged.
	ProcessWebhook(ctx context.Context, body []byte) error

	// SendText sends a plain text message and records the bot activity
	// on the phone's session.
	SendText(ctx context.Context, phone, message string) error
}

type messageService struct {
	gateway zapi.Client
	store   session.Store
	engine  *flow.Engine
	sink    leads.Sink
	mailer  *mailer.Mailer
	catalog models.CatalogConfig
	logger  *logrus.Logger
	errLog  *errors.Logger
}

// NewMessageService wires the conversation pipeline.
func NewMessageService(
	gateway zapi.Client,
	store session.Store,
	engine *flow.Engine,
	sink leads.Sink,
	mail *mailer.Mailer,
	catalog models.CatalogConfig,
	logger *logrus.Logger,
) MessageService {
	return &messageService{
		gateway: gateway,
		store:   store,
		engine:  engine,
		sink:    sink,
		mailer:  mail,
		catalog: catalog,
		logger:  logger,
		errLog:  errors.WrapLogger(logger),
	}
}

func (s *messageService) ProcessWebhook(ctx context.Context, body []byte) error {
	event := zapi.ParseInboundEvent(body)
	if event.Phone == "" || event.Text == "" {
		metrics.IncrementCounter("webhook_events_ignored_total", nil, "Webhook events without text or phone")
		s.logger.WithFields(logrus.Fields{
			"has_phone": event.Phone != "",
			"has_text":  event.Text != "",
		}).Debug("Ignoring webhook event without usable content")
		return nil
	}

	if err := validation.ValidatePhoneNumber(event.Phone); err != nil {
		metrics.IncrementCounter("webhook_events_ignored_total", nil, "Webhook events without text or phone")
		s.logger.WithError(err).Debug("Ignoring webhook event with invalid phone")
		return nil
	}

	metrics.IncrementCounter("webhook_events_processed_total", nil, "Webhook events processed")

	var result flow.Result
	s.store.Update(event.Phone, func(sess *models.Session) {
		result = s.engine.Handle(sess, event.Text)
	})

	if result.Reply != "" {
		if err := s.SendText(ctx, event.Phone, result.Reply); err != nil {
			s.errLog.LogRetryableError(err, "Failed to send reply", logrus.Fields{"phone": event.Phone})
		}
	}

	if result.Lead != nil {
		s.completeFlow(ctx, event.Phone, result)
	}

	return nil
}

// completeFlow performs the terminal side effects: persist the lead,
// optionally deliver the catalog, optionally notify by email. A failure
// yields a single apology message and never rolls the stage back; the
// lead is considered captured regardless of downstream delivery.
func (s *messageService) completeFlow(ctx context.Context, phone string, result flow.Result) {
	lead := result.Lead
	failed := false

	if err := s.sink.Save(ctx, lead); err != nil {
		failed = true
		s.logger.WithError(errors.Wrap(err, errors.ErrCodeLeadSink, "failed to persist lead")).
			WithField("lead_id", lead.ID).Error("Lead persistence failed")
	} else {
		metrics.IncrementCounter("leads_persisted_total", map[string]string{
			"mode": string(lead.Mode),
		}, "Leads persisted")
		s.logger.WithFields(logrus.Fields{
			"lead_id": lead.ID,
			"mode":    lead.Mode,
		}).Info("Lead persisted")
	}

	if result.SendCatalog {
		if err := s.sendCatalog(ctx, phone); err != nil {
			failed = true
			s.logger.WithError(err).WithField("phone", phone).Error("Catalog delivery failed")
		}
		if s.mailer != nil {
			s.mailer.NotifyCatalogRequest(lead)
		}
	}

	if failed {
		if err := s.SendText(ctx, phone, flow.MsgApology); err != nil {
			s.logger.WithError(err).WithField("phone", phone).Error("Failed to send apology")
		}
	}
}

// sendCatalog delivers the catalog PDF, falling back to a plain link
// when every file-send variant fails.
func (s *messageService) sendCatalog(ctx context.Context, phone string) error {
	fileURL := s.catalog.RezymolURL
	fileName := "Catalogo-Rezymol.pdf"
	caption := "📄 Catálogo Rezymol"
	if fileURL == "" {
		fileURL = s.catalog.PittyURL
		fileName = "Catalogo-Pitty.pdf"
		caption = "📄 Catálogo Pitty"
	}

	if fileURL == "" {
		return s.SendText(ctx, phone, "📄 Link do catálogo não configurado. Um atendente enviará em breve.")
	}

	delivery := "file"
	if _, err := s.gateway.SendFile(ctx, phone, fileURL, fileName, caption); err != nil {
		s.logger.WithError(err).WithField("phone", phone).Warn("File send failed, falling back to link")
		if sendErr := s.SendText(ctx, phone, fmt.Sprintf("%s: %s", caption, fileURL)); sendErr != nil {
			return fmt.Errorf("file send and link fallback both failed: %w", sendErr)
		}
		delivery = "link"
	}

	metrics.IncrementCounter("catalogs_sent_total", map[string]string{
		"delivery": delivery,
	}, "Catalog deliveries")
	return nil
}

func (s *messageService) SendText(ctx context.Context, phone, message string) error {
	if _, err := s.gateway.SendText(ctx, phone, message); err != nil {
		return err
	}

	s.store.Update(phone, func(sess *models.Session) {
		sess.LastBotActivity = nowFunc()
	})

	return nil
}
