package app

import (
	"context"
	"sync"
	"time"

	"werewolf/internal/domain"
)

// Slot is one (participant, role) pair that may act this phase
type Slot struct {
	ParticipantID string
	Role          domain.Role
}

// Collector gathers one action per required slot for a single phase.
// Humans submit out-of-band at any time before the deadline; automated
// actions are seeded at construction. The phase advances when every
// required slot has acted or the deadline elapses; a slot that never
// acts is "no action", not an error.
type Collector struct {
	mu       sync.Mutex
	required map[Slot]bool
	acted    map[Slot]domain.NightActionRequest
	order    []Slot // submission order of first-time actions
	done     chan struct{}
	timer    *time.Timer
	complete bool
}

// NewCollector creates a collector for the given required slots. With
// no required slots or a zero deadline the collector completes
// immediately.
func NewCollector(slots []Slot, deadline time.Duration) *Collector {
	c := &Collector{
		required: make(map[Slot]bool, len(slots)),
		acted:    make(map[Slot]domain.NightActionRequest),
		done:     make(chan struct{}),
	}
	for _, s := range slots {
		c.required[s] = true
	}

	if len(c.required) == 0 {
		c.complete = true
		close(c.done)
		return c
	}

	c.timer = time.AfterFunc(deadline, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.finish()
	})
	return c
}

// Submit records an action for its slot. Resubmission before resolution
// overwrites the earlier action (last-write-wins); replaced reports
// whether that happened so the caller can log it. Submissions for slots
// outside the required set fail with ErrIneligibleActor and never
// disturb other slots.
func (c *Collector) Submit(req domain.NightActionRequest) (replaced bool, err error) {
	slot := Slot{ParticipantID: req.ActorID, Role: req.Role}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.complete {
		return false, domain.ErrInvalidPhase
	}
	if !c.required[slot] {
		return false, domain.ErrIneligibleActor
	}

	_, replaced = c.acted[slot]
	c.acted[slot] = req
	if !replaced {
		c.order = append(c.order, slot)
	}

	if len(c.acted) == len(c.required) {
		c.finish()
	}
	return replaced, nil
}

// Pending returns the required slots that have not acted yet
func (c *Collector) Pending() []Slot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Slot, 0)
	for slot := range c.required {
		if _, ok := c.acted[slot]; !ok {
			out = append(out, slot)
		}
	}
	return out
}

// Wait blocks until every required slot acted, the deadline fired, or
// the context was cancelled. It returns whatever was collected; on
// cancellation it returns nil so no partial resolution is applied.
func (c *Collector) Wait(ctx context.Context) []domain.NightActionRequest {
	select {
	case <-ctx.Done():
		c.Cancel()
		return nil
	case <-c.done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.NightActionRequest, 0, len(c.order))
	for _, slot := range c.order {
		out = append(out, c.acted[slot])
	}
	return out
}

// Cancel releases any waiter without waiting for the deadline
func (c *Collector) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish()
}

// finish closes the collector exactly once. Caller must hold c.mu.
func (c *Collector) finish() {
	if c.complete {
		return
	}
	c.complete = true
	if c.timer != nil {
		c.timer.Stop()
	}
	close(c.done)
}
