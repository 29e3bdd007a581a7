package followup

import (
	"context"
	"time"

	"zapbot/internal/constants"
	"zapbot/internal/metrics"
	"zapbot/internal/models"
	"zapbot/internal/session"

	"github.com/sirupsen/logrus"
)

// TextSender is the outbound surface the sweeper needs.
type TextSender interface {
	SendText(ctx context.Context, phone, message string) error
}

// Reminders are evaluated by a single periodic sweep over the session
// store instead of per-session timers, so a reset session simply stops
// matching and nothing needs cancelling.
type Sweeper struct {
	store    session.Store
	sender   TextSender
	cfg      models.FollowUpConfig
	messages map[models.Reminder]string
	logger   *logrus.Logger
	now      func() time.Time
	stopCh   chan struct{}
}

// NewSweeper creates a follow-up sweeper using the wall clock.
func NewSweeper(store session.Store, sender TextSender, cfg models.FollowUpConfig, messages map[models.Reminder]string, logger *logrus.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		sender:   sender,
		cfg:      cfg,
		messages: messages,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// SetClock injects a clock for deterministic tests.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Start runs the sweep loop until the context is cancelled or Stop is
// called.
func (s *Sweeper) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.SweepIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.WithField("interval", interval).Info("Starting follow-up sweeper")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper context cancelled, stopping")
			return
		case <-s.stopCh:
			s.logger.Info("Sweeper stop signal received, stopping")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

// Sweep evaluates every active session once and sends at most one
// reminder per session. Safe to call concurrently with inbound events;
// the reminder flag is set under the per-phone lock before sending.
func (s *Sweeper) Sweep(ctx context.Context) {
	for _, phone := range s.store.Phones() {
		s.sweepPhone(ctx, phone)
	}
}

func (s *Sweeper) sweepPhone(ctx context.Context, phone string) {
	now := s.now()

	var due models.Reminder
	s.store.Update(phone, func(sess *models.Session) {
		due = s.dueReminder(sess, now)
		if due != "" {
			// Marked before the send so a delivery failure cannot make
			// the same reminder fire twice.
			sess.Notified[due] = true
			sess.LastBotActivity = now
		}
	})

	if due == "" {
		return
	}

	message := s.messages[due]
	if message == "" {
		return
	}

	if err := s.sender.SendText(ctx, phone, message); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"phone":    phone,
			"reminder": due,
		}).Warn("Failed to send follow-up reminder")
		return
	}

	metrics.IncrementCounter("followup_reminders_total", map[string]string{
		"reminder": string(due),
	}, "Follow-up reminders sent")

	s.logger.WithFields(logrus.Fields{
		"phone":    phone,
		"reminder": due,
	}).Info("Follow-up reminder sent")
}

// dueReminder picks the earliest unfired reminder whose threshold has
// elapsed, or "" when nothing is due. Newer user activity pushes the
// idle time back under every threshold, which is what suppresses stale
// reminders.
func (s *Sweeper) dueReminder(sess *models.Session, now time.Time) models.Reminder {
	if !sess.Active() {
		return ""
	}

	// Anti-flood guard: never stack a reminder on a fresh outbound.
	if now.Sub(sess.LastBotActivity) < constants.AntiFloodWindowSec*time.Second {
		return ""
	}

	idle := now.Sub(sess.LastUserActivity)

	if !sess.Notified[models.ReminderShortIdle] &&
		idle >= time.Duration(s.cfg.ShortIdleMin)*time.Minute {
		return models.ReminderShortIdle
	}

	if sess.Mode == models.ModeOrder &&
		!sess.Notified[models.ReminderMidDelay] &&
		idle >= time.Duration(s.cfg.MidDelayMin)*time.Minute {
		return models.ReminderMidDelay
	}

	if !sess.Notified[models.ReminderLongDelay] &&
		idle >= time.Duration(s.cfg.LongDelayMin)*time.Minute {
		return models.ReminderLongDelay
	}

	return ""
}
