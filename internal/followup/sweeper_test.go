package followup

import (
	"context"
	"sync"
	"testing"
	"time"

	"zapbot/internal/models"
	"zapbot/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeSender) SendText(ctx context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return assert.AnError
	}
	f.sent = append(f.sent, phone+": "+message)
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

var testMessages = map[models.Reminder]string{
	models.ReminderShortIdle: "short",
	models.ReminderMidDelay:  "mid",
	models.ReminderLongDelay: "long",
}

func testConfig() models.FollowUpConfig {
	return models.FollowUpConfig{
		SweepIntervalSec: 60,
		ShortIdleMin:     5,
		MidDelayMin:      30,
		LongDelayMin:     120,
	}
}

func newTestSweeper(store session.Store, sender TextSender, now *time.Time) *Sweeper {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	s := NewSweeper(store, sender, testConfig(), testMessages, logger)
	s.SetClock(func() time.Time { return *now })
	return s
}

func seedActiveSession(store session.Store, phone string, mode models.Mode, at time.Time) {
	store.Update(phone, func(s *models.Session) {
		s.Mode = mode
		s.Stage = models.StageAskName
		s.LastUserActivity = at
		s.LastBotActivity = at
	})
}

func TestSweeper_ShortIdleFiresOnce(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)

	now = base.Add(6 * time.Minute)
	sweeper.Sweep(context.Background())
	require.Equal(t, []string{"5511999990000: short"}, sender.messages())

	// Repeat sweeps must not fire the same reminder again.
	now = base.Add(8 * time.Minute)
	sweeper.Sweep(context.Background())
	assert.Len(t, sender.messages(), 1)
}

func TestSweeper_NotDueBeforeThreshold(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)

	now = base.Add(3 * time.Minute)
	sweeper.Sweep(context.Background())
	assert.Empty(t, sender.messages())
}

func TestSweeper_NewerUserActivitySuppressesReminder(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)

	// User replied right before the sweep; idle time restarts.
	store.Update("5511999990000", func(s *models.Session) {
		s.LastUserActivity = base.Add(5 * time.Minute)
	})

	now = base.Add(6 * time.Minute)
	sweeper.Sweep(context.Background())
	assert.Empty(t, sender.messages())
}

func TestSweeper_AntiFloodGuard(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)

	// An outbound message went out seconds ago.
	store.Update("5511999990000", func(s *models.Session) {
		s.LastBotActivity = base.Add(6 * time.Minute).Add(-10 * time.Second)
	})

	now = base.Add(6 * time.Minute)
	sweeper.Sweep(context.Background())
	assert.Empty(t, sender.messages())
}

func TestSweeper_MidDelayOnlyForOrderMode(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "order-phone", models.ModeOrder, base)
	seedActiveSession(store, "support-phone", models.ModeSupport, base)
	// Short idle already consumed for both.
	for _, phone := range []string{"order-phone", "support-phone"} {
		store.Update(phone, func(s *models.Session) {
			s.Notified[models.ReminderShortIdle] = true
		})
	}

	now = base.Add(40 * time.Minute)
	sweeper.Sweep(context.Background())

	assert.Equal(t, []string{"order-phone: mid"}, sender.messages())
}

func TestSweeper_LongDelayAfterEverythingElse(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)
	store.Update("5511999990000", func(s *models.Session) {
		s.Notified[models.ReminderShortIdle] = true
	})

	now = base.Add(3 * time.Hour)
	sweeper.Sweep(context.Background())

	assert.Equal(t, []string{"5511999990000: long"}, sender.messages())
}

func TestSweeper_InactiveSessionsSkipped(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	store.Update("idle-phone", func(s *models.Session) {
		s.LastUserActivity = base
	})
	store.Update("done-phone", func(s *models.Session) {
		s.Stage = models.StageDone
		s.LastUserActivity = base
	})

	now = base.Add(3 * time.Hour)
	sweeper.Sweep(context.Background())
	assert.Empty(t, sender.messages())
}

func TestSweeper_ReminderFlagSetEvenIfSendFails(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{fail: true}
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := base
	sweeper := newTestSweeper(store, sender, &now)

	seedActiveSession(store, "5511999990000", models.ModeSupport, base)

	now = base.Add(6 * time.Minute)
	sweeper.Sweep(context.Background())

	snap := store.Snapshot("5511999990000")
	assert.True(t, snap.Notified[models.ReminderShortIdle])
}

func TestSweeper_StartStop(t *testing.T) {
	store := session.NewMemoryStore()
	sender := &fakeSender{}
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	cfg := testConfig()
	cfg.SweepIntervalSec = 1
	sweeper := NewSweeper(store, sender, cfg, testMessages, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sweeper did not stop within timeout")
	}
}
