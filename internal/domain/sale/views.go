// internal/domain/sale/views.go
package sale

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// recentLimit is how many sales the cached recent list holds
const recentLimit = 10

// viewsTTL bounds how long a snapshot is served without a refresh, so
// refunds and voids that bypass the checkout path still show up soon
const viewsTTL = 10 * time.Second

// Views is a cached snapshot of the register dashboard reads: the
// recent sales list and today's totals. The checkout coordinator
// refreshes it after every completed sale; between refreshes the
// snapshot expires on a short TTL.
type Views struct {
	service *Service
	logger  *logrus.Logger

	mu        sync.RWMutex
	recent    []Sale
	today     *TodayStats
	fetchedAt time.Time
	ttl       time.Duration
}

// NewViews creates the sale read models over the given service
func NewViews(service *Service, logger *logrus.Logger) *Views {
	return &Views{
		service: service,
		logger:  logger,
		ttl:     viewsTTL,
	}
}

// Refresh reloads the snapshot from the database. Failures are logged
// and the previous snapshot ages out instead of being replaced.
func (v *Views) Refresh(ctx context.Context) {
	recent, err := v.service.GetRecent(ctx, recentLimit)
	if err != nil {
		v.logger.WithError(err).Warn("recent sales view refresh failed")
		return
	}
	today, err := v.service.GetTodayStats(ctx)
	if err != nil {
		v.logger.WithError(err).Warn("today stats view refresh failed")
		return
	}

	v.mu.Lock()
	v.recent = recent
	v.today = today
	v.fetchedAt = time.Now()
	v.mu.Unlock()
}

// Recent returns up to n cached recent sales. The second return is
// false when the snapshot is missing, expired or holds fewer sales
// than asked for; callers then fall back to the database.
func (v *Views) Recent(n int) ([]Sale, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.stale() || n > len(v.recent) {
		return nil, false
	}
	out := make([]Sale, n)
	copy(out, v.recent[:n])
	return out, true
}

// Today returns the cached today stats, or false when the snapshot is
// missing or expired
func (v *Views) Today() (*TodayStats, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.stale() || v.today == nil {
		return nil, false
	}
	stats := *v.today
	return &stats, true
}

// stale reports whether the snapshot has expired. Callers hold v.mu.
func (v *Views) stale() bool {
	return v.fetchedAt.IsZero() || time.Since(v.fetchedAt) > v.ttl
}
