package execution

import (
	"fmt"
	"sync"
	"time"

	"probectl/internal/domain"
)

// IDGenerator builds result ids of the form "<category>-<caseID>-<epochMillis>".
// Timestamps are strictly increasing so two invocations never share an id.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates an IDGenerator using the wall clock
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh id for the case and the timestamp encoded in it
func (g *IDGenerator) Next(tc domain.TestCase) (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s-%s-%d", tc.Category, tc.ID, ms), time.UnixMilli(ms)
}
