package services

import (
	"fmt"
	"sync"
	"time"
)

const orderIDPrefix = "ORD-"

// orderIDGenerator hands out ORD-<unix millis> ids that strictly increase,
// even when two orders are confirmed within the same millisecond.
type orderIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newOrderIDGenerator(now func() time.Time) *orderIDGenerator {
	return &orderIDGenerator{now: now}
}

func (g *orderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s%d", orderIDPrefix, ms)
}
