package services

import (
	"sync"
	"time"

	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// reminderSendDelay spaces out expiry reminder sends so the daily batch
// does not hammer the messaging channel.
const reminderSendDelay = 500 * time.Millisecond

// SchedulerConfig carries the sweep intervals and booking sweep windows.
type SchedulerConfig struct {
	ActivationInterval time.Duration
	ExpiryInterval     time.Duration
	ReviewInterval     time.Duration
	ReminderInterval   time.Duration
	ReviewGracePeriod  time.Duration
	ReminderWindowMin  time.Duration
	ReminderWindowMax  time.Duration
}

// Scheduler runs the four periodic sweeps: deal activation, deal expiry,
// review requests and code expiry reminders. Every sweep is idempotent
// and safe to run concurrently with user-triggered joins and redemptions;
// the underlying transitions are guarded by current status. One failing
// item never aborts its sweep.
type Scheduler struct {
	engine   *DealService
	bookings repository.BookingRepository
	deals    repository.DealRepository
	notifier Notifier
	clock    Clock
	cfg      SchedulerConfig

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler wires the background sweeps.
func NewScheduler(
	engine *DealService,
	bookings repository.BookingRepository,
	deals repository.DealRepository,
	notifier Notifier,
	clock Clock,
	cfg SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		engine:   engine,
		bookings: bookings,
		deals:    deals,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep goroutines. Call Stop to shut them down.
func (s *Scheduler) Start() {
	s.launch(s.cfg.ActivationInterval, s.engine.CheckAndActivateDeals)
	s.launch(s.cfg.ExpiryInterval, s.engine.CheckExpiredDeals)
	s.launch(s.cfg.ReviewInterval, s.SweepReviewRequests)
	s.launch(s.cfg.ReminderInterval, s.SweepExpiryReminders)
	utils.LogInfo("Scheduler started: activation %s, expiry %s, review %s, reminder %s",
		s.cfg.ActivationInterval, s.cfg.ExpiryInterval, s.cfg.ReviewInterval, s.cfg.ReminderInterval)
}

// Stop halts all sweeps and waits for in-flight ones to finish.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	utils.LogInfo("Scheduler stopped")
}

func (s *Scheduler) launch(interval time.Duration, sweep func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// SweepReviewRequests finds bookings that were redeemed more than the
// grace period ago without a review prompt and sends one. The booking is
// marked first so a send failure cannot cause repeat prompts.
func (s *Scheduler) SweepReviewRequests() {
	now := s.clock.Now()
	bookings, err := s.bookings.ListUsedAwaitingReview(now.Add(-s.cfg.ReviewGracePeriod))
	if err != nil {
		utils.LogError("scheduler: review sweep query: %v", err)
		return
	}
	for _, booking := range bookings {
		deal, err := s.deals.GetByID(booking.DealID)
		if err != nil {
			utils.LogError("scheduler: review sweep deal %d: %v", booking.DealID, err)
			continue
		}
		if err := s.bookings.MarkReviewRequested(booking.ID); err != nil {
			utils.LogError("scheduler: mark review requested booking %d: %v", booking.ID, err)
			continue
		}
		s.notifier.SendReviewRequest(&booking, deal)
	}
	if len(bookings) > 0 {
		utils.LogInfo("Review sweep dispatched %d prompts", len(bookings))
	}
}

// SweepExpiryReminders warns customers whose activated codes expire in
// two to three days. One now snapshot covers the whole batch so the
// window boundaries are consistent across bookings.
func (s *Scheduler) SweepExpiryReminders() {
	now := s.clock.Now()
	bookings, err := s.bookings.ListActivatedAwaitingReminder(
		now.Add(s.cfg.ReminderWindowMin), now.Add(s.cfg.ReminderWindowMax))
	if err != nil {
		utils.LogError("scheduler: reminder sweep query: %v", err)
		return
	}
	for i, booking := range bookings {
		if i > 0 {
			time.Sleep(reminderSendDelay)
		}
		deal, err := s.deals.GetByID(booking.DealID)
		if err != nil {
			utils.LogError("scheduler: reminder sweep deal %d: %v", booking.DealID, err)
			continue
		}
		if err := s.bookings.MarkReminderSent(booking.ID); err != nil {
			utils.LogError("scheduler: mark reminder sent booking %d: %v", booking.ID, err)
			continue
		}
		s.notifier.SendCodeExpiryReminder(&booking, deal)
	}
	if len(bookings) > 0 {
		utils.LogInfo("Reminder sweep dispatched %d reminders", len(bookings))
	}
}
