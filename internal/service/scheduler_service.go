package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"user-reminders/internal/events"
)

// fireSuppressionWindow is the minimum interval between repeated
// due-event emissions for the same reminder.
const fireSuppressionWindow = 24 * time.Hour

// SchedulerService polls the reminder collection on a fixed interval
// and fires a due-event for every reminder that is due and has not
// fired within the suppression window, advancing its last_fired through
// the same update path external callers use.
type SchedulerService struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	reminders *ReminderService
	bus       *events.Bus
	logger    *slog.Logger
	running   bool
}

func NewSchedulerService(loc *time.Location, reminders *ReminderService, bus *events.Bus, logger *slog.Logger) *SchedulerService {
	return &SchedulerService{
		cron:      cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		reminders: reminders,
		bus:       bus,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start arms the recurring poll. Calling Start on a running scheduler
// is a no-op.
func (s *SchedulerService) Start(interval time.Duration) error {
	if s.running {
		return nil
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	id, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return err
	}
	s.entryID = id

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "interval", interval)
	return nil
}

// Stop cancels the poll timer and waits for an in-flight tick to
// finish. The cron entry is removed so a later Start registers exactly
// one poll again. Safe to call when already stopped.
func (s *SchedulerService) Stop() {
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.running = false
	s.logger.Debug("scheduler stopped")
}

func (s *SchedulerService) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler tick panicked", "panic", r)
		}
	}()

	ctx := context.Background()
	if err := s.CheckDue(ctx, s.reminders.now()); err != nil {
		s.logger.Error("scheduler tick failed", "error", err)
	}
}

// CheckDue runs one evaluation pass against now: it loads a fresh view
// of the collection, emits a due-event for every due-and-fireable
// reminder and sets its last_fired to now. A failure on one reminder
// never aborts the rest of the pass.
func (s *SchedulerService) CheckDue(ctx context.Context, now time.Time) error {
	records, err := s.reminders.store.Load(ctx)
	if err != nil {
		return err
	}

	for _, item := range s.reminders.decodeAll(records) {
		if item.Due.After(now) {
			continue
		}
		if item.LastFired != nil && now.Sub(*item.LastFired) < fireSuppressionWindow {
			continue
		}

		s.logger.Info("reminder due", "uid", item.UID, "summary", item.Summary)
		s.bus.Emit(ctx, events.ReminderDue, events.Payload{
			"uid":     item.UID,
			"summary": item.Summary,
			"due":     item.Due.Format(time.RFC3339),
			"user_id": item.UserID,
			"list_id": item.ListID,
		})

		// Attributed to the owning user, like any external update.
		fired := now
		err := s.reminders.Update(ctx, Actor{UserID: item.UserID}, item.ListID, ItemPatch{
			UID:       item.UID,
			LastFired: &fired,
		})
		if err != nil {
			s.logger.Error("failed to record firing", "uid", item.UID, "error", err)
		}
	}
	return nil
}
