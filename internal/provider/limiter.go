package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// spacing enforces a global minimum interval between outbound calls.
type spacing struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   Sleeper
}

func newSpacing(interval time.Duration, now func() time.Time, sleep Sleeper) *spacing {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &spacing{
		limiter: rate.NewLimiter(limit, 1),
		now:     now,
		sleep:   sleep,
	}
}

// wait reserves the next slot and blocks until it opens. A cancelled
// context releases the reservation.
func (s *spacing) wait(ctx context.Context) (time.Duration, error) {
	now := s.now()
	reservation := s.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if err := s.sleep(ctx, delay); err != nil {
		reservation.CancelAt(s.now())
		return delay, err
	}
	return delay, nil
}

// dailyQuota counts outbound calls per local calendar day.
type dailyQuota struct {
	mu    sync.Mutex
	limit int
	day   string
	count int
	now   func() time.Time
}

func newDailyQuota(limit int, now func() time.Time) *dailyQuota {
	return &dailyQuota{limit: limit, now: now}
}

// take consumes one request from today's budget. It resets the counter when
// the local date has changed since the last call.
func (q *dailyQuota) take() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if q.limit > 0 && q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// refund returns a request taken today that never reached the network.
func (q *dailyQuota) refund() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rollover()
	if q.count > 0 {
		q.count--
	}
}

func (q *dailyQuota) used() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rollover()
	return q.count
}

func (q *dailyQuota) rollover() {
	today := q.now().Local().Format(time.DateOnly)
	if today != q.day {
		q.day = today
		q.count = 0
	}
}
