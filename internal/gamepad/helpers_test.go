package gamepad

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// fakeSource hands out whatever snapshots the test sets and counts reads.
type fakeSource struct {
	mu      sync.Mutex
	snaps   []RawSnapshot
	reads   int
	handler HotplugHandler
}

func (s *fakeSource) Snapshots() []RawSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.snaps
}

func (s *fakeSource) Set(snaps ...RawSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snaps == nil {
		snaps = []RawSnapshot{}
	}
	s.snaps = snaps
}

func (s *fakeSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// hotplugSource is a fakeSource that also pushes notifications.
type hotplugSource struct {
	fakeSource
	unsubscribed bool
}

func (s *hotplugSource) Subscribe(h HotplugHandler) func() {
	s.handler = h
	return func() {
		s.unsubscribed = true
		s.handler = nil
	}
}

func buttons(n int, set map[int]float64) []float64 {
	b := make([]float64, n)
	for i, v := range set {
		b[i] = v
	}
	return b
}

func newTestPlugin(t *testing.T, src Source, opts ...Option) (*Plugin, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	p, err := NewPlugin(src, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return p, clock
}

// tick advances past the polling rate and runs one poll.
func tick(t *testing.T, p *Plugin, clock *fakeClock) time.Time {
	t.Helper()
	now := clock.Advance(p.Settings().PollingRate + time.Millisecond)
	require.True(t, p.Update(now))
	return now
}

// recorder collects fired events in order.
type recorder struct {
	log []string
}

func (r *recorder) listeners(tag string) Listeners {
	return Listeners{
		OnDown:  func(ev ButtonEvent) { r.add(tag, "down", ev.Code) },
		OnUp:    func(ev ButtonEvent) { r.add(tag, "up", ev.Code) },
		OnFloat: func(ev ButtonEvent) { r.add(tag, "float", ev.Code) },
		OnAxis:  func(ev AxisEvent) { r.add(tag, "axis", ev.Axis) },
	}
}

func (r *recorder) add(tag, kind string, code int) {
	r.log = append(r.log, tag+":"+kind+":"+strconv.Itoa(code))
}

func (r *recorder) count(entry string) int {
	n := 0
	for _, e := range r.log {
		if e == entry {
			n++
		}
	}
	return n
}
