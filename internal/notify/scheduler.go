package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"go.uber.org/zap"
)

// ErrSchedulerRunning is returned when Start is called on a running scheduler
var ErrSchedulerRunning = errors.New("scheduler already running")

// DefaultInterval is how often the scheduler checks for due reminders
const DefaultInterval = time.Hour

// Clock returns the current time
type Clock func() time.Time

// Scheduler periodically emits date-driven reminders and, whenever a new
// calculation arrives, the savings opportunities it suggests. A reminder is
// sent once per due date and offset, however often the check runs.
type Scheduler struct {
	Interval time.Duration
	Notifier Notifier
	Clock    Clock
	Logger   *zap.Logger

	checkMu sync.Mutex
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	updates chan domain.Calculation
	last    *domain.Calculation
	sent    map[string]struct{}
}

// NewScheduler creates a scheduler with the default interval and wall clock
func NewScheduler(notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Interval: DefaultInterval,
		Notifier: notifier,
		Clock:    time.Now,
		Logger:   logger,
	}
}

// Start runs an initial check and then checks every Interval until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerRunning
	}
	if s.Notifier == nil {
		return fmt.Errorf("scheduler has no notifier")
	}
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.updates = make(chan domain.Calculation)
	s.running = true

	go s.run(ctx, s.done, s.updates)
	return nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, updates <-chan domain.Calculation) {
	defer close(done)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		case calc := <-updates:
			s.record(calc)
			s.SendSavings(ctx, calc)
			s.Check(ctx)
		}
	}
}

// Stop halts the check loop and waits for it to exit. Stopping an idle
// scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.mu.Unlock()

	<-done
}

// Running reports whether the check loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Update hands the scheduler the latest calculation. While running, the loop
// sends its savings opportunities and rechecks reminders; otherwise the
// calculation is only recorded for the next check.
func (s *Scheduler) Update(ctx context.Context, calc domain.Calculation) {
	s.mu.Lock()
	running, updates, done := s.running, s.updates, s.done
	s.mu.Unlock()

	if !running {
		s.record(calc)
		return
	}
	select {
	case updates <- calc:
	case <-done:
		s.record(calc)
	case <-ctx.Done():
	}
}

// LastCalculation returns the most recent calculation handed to Update
func (s *Scheduler) LastCalculation() *domain.Calculation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) record(calc domain.Calculation) {
	s.mu.Lock()
	s.last = &calc
	s.mu.Unlock()
}

// Check sends every reminder due now that has not been sent before and
// returns what it sent. Delivery failures are logged and the reminder is
// retried on the next check.
func (s *Scheduler) Check(ctx context.Context) []domain.Notification {
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	now := s.now()
	due := DueReminders(now, s.LastCalculation())

	var sent []domain.Notification
	for _, n := range due {
		key := reminderKey(n, now)
		if s.alreadySent(key) {
			continue
		}
		if err := s.deliver(ctx, n); err != nil {
			continue
		}
		s.markSent(key)
		sent = append(sent, n)
	}
	return sent
}

// SendSavings delivers the savings opportunities calc suggests and returns
// the ones delivered.
func (s *Scheduler) SendSavings(ctx context.Context, calc domain.Calculation) []domain.Notification {
	now := s.now()
	var sent []domain.Notification
	for _, opp := range SavingsOpportunities(calc) {
		n := NewSavingsNotification(opp, calc.OriginalCurrency, now)
		if err := s.deliver(ctx, n); err != nil {
			continue
		}
		sent = append(sent, n)
	}
	return sent
}

func (s *Scheduler) deliver(ctx context.Context, n domain.Notification) error {
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.logger().Warn("notification delivery failed",
			zap.String("type", string(n.Type)),
			zap.String("title", n.Title),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Scheduler) alreadySent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[key]
	return ok
}

func (s *Scheduler) markSent(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[string]struct{})
	}
	s.sent[key] = struct{}{}
}

func reminderKey(n domain.Notification, now time.Time) string {
	if n.DueDate == nil {
		return fmt.Sprintf("%s/%s", n.Type, n.Title)
	}
	return fmt.Sprintf("%s/%s/%d", n.Type, n.DueDate.Format("2006-01-02"), DaysUntil(now, *n.DueDate))
}

func (s *Scheduler) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Scheduler) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
