package scheduler

import (
	"context"
	"fmt"
	"time"

	"consult-booking/internal/data/entity"
	"consult-booking/internal/data/repository"
	"consult-booking/pkg/mailer"
	"consult-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reminderMailSubject = "Appointment Reminder"

// perCandidateTimeout bounds the mail send for one appointment so a hung
// notifier cannot stall the whole tick. A timeout counts as a transient
// failure and the candidate is retried on the next tick.
const perCandidateTimeout = 15 * time.Second

// ReminderScanner periodically scans for confirmed, unreminded appointments
// starting within the reminder window and mails a reminder for each.
//
// Delivery is send-then-mark: the flag is only flipped after a successful
// send, so a failed send is retried next tick (at-least-once semantics; a
// duplicate is possible if flipping the flag fails after a successful send).
type ReminderScanner struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	clock  utils.Clock
	window time.Duration
	loc    *time.Location
	log    *zap.Logger
	cron   *cron.Cron
}

func NewReminderScanner(
	repo *repository.Repository,
	mail mailer.Mailer,
	clock utils.Clock,
	config *utils.Config,
	log *zap.Logger,
) *ReminderScanner {
	window := time.Duration(config.Reminder.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Hour
	}

	return &ReminderScanner{
		repo:   repo,
		mail:   mail,
		clock:  clock,
		window: window,
		loc:    time.Local,
		log:    log.With(zap.String("scheduler", "reminder")),
	}
}

// Start schedules the scan at the configured cadence and runs it for the
// lifetime of the process until Stop is called.
func (s *ReminderScanner) Start(interval string) error {
	c := cron.New()

	_, err := c.AddFunc(interval, func() {
		if tickErr := s.RunTick(context.Background()); tickErr != nil {
			s.log.Error("Reminder tick failed", zap.Error(tickErr))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder scan %q: %w", interval, err)
	}

	c.Start()
	s.cron = c

	s.log.Info("Reminder scanner started", zap.String("interval", interval))
	return nil
}

func (s *ReminderScanner) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.log.Info("Reminder scanner stopped")
	}
}

// RunTick performs one scan. A failure for one candidate never aborts the
// rest; only the candidate query itself is fatal to the tick.
func (s *ReminderScanner) RunTick(ctx context.Context) error {
	candidates, err := s.repo.Appointment.FindPendingReminders(ctx)
	if err != nil {
		return fmt.Errorf("query reminder candidates: %w", err)
	}

	now := s.clock.Now()
	sent, failed := 0, 0

	for _, appt := range candidates {
		startsAt, err := appt.StartsAt(s.loc)
		if err != nil {
			s.log.Warn("Skipping appointment with unparseable slot",
				zap.String("appointment_id", appt.ID.String()),
				zap.String("date", appt.Date),
				zap.String("start_time", appt.StartTime),
				zap.Error(err),
			)
			continue
		}

		// Eligible iff now < startsAt <= now+window. A slot already begun is
		// never reminded, nor is one beyond the window.
		if !startsAt.After(now) || startsAt.After(now.Add(s.window)) {
			continue
		}

		if err := s.remind(ctx, appt); err != nil {
			failed++
			s.log.Error("Failed to send reminder",
				zap.Error(err),
				zap.String("appointment_id", appt.ID.String()),
			)
			continue
		}
		sent++
	}

	if sent > 0 || failed > 0 {
		s.log.Info("Reminder tick finished",
			zap.Int("candidates", len(candidates)),
			zap.Int("sent", sent),
			zap.Int("failed", failed),
		)
	}

	return nil
}

func (s *ReminderScanner) remind(ctx context.Context, appt *entity.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, perCandidateTimeout)
	defer cancel()

	user, err := s.repo.User.FindByID(ctx, appt.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", appt.UserID.String(), err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", appt.UserID.String())
	}

	body := fmt.Sprintf("Reminder: Your appointment is at %s today", appt.StartTime)
	if err := s.mail.Send(ctx, user.Email, reminderMailSubject, body); err != nil {
		return err
	}

	applied, err := s.repo.Appointment.MarkReminderSent(ctx, appt.ID)
	if err != nil {
		// The mail went out but the flag did not stick; the next tick may
		// send a duplicate, which the send-then-mark ordering accepts.
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if !applied {
		s.log.Warn("Reminder flag not applied, record changed concurrently",
			zap.String("appointment_id", appt.ID.String()))
		return nil
	}

	s.log.Info("Reminder sent",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("start_time", appt.StartTime),
	)

	return nil
}
