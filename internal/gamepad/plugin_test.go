package gamepad

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPluginValidation(t *testing.T) {
	_, err := NewPlugin(nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewPlugin(&fakeSource{}, WithCapacity(0))
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	p, err := NewPlugin(&fakeSource{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, p.Capacity())
	assert.Equal(t, DefaultSettings(), p.Settings())
}

func TestPadAccessorsAreReferences(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeSource{})

	assert.Same(t, p.Pad(0), p.Pad1())
	assert.Same(t, p.Pad(10), p.Pad11())
	assert.Nil(t, p.Pad(11))
	assert.Nil(t, p.Pad(-1))

	for i := 0; i < p.Capacity(); i++ {
		assert.Equal(t, i, p.Pad(i).Index())
	}

	small, _ := newTestPlugin(t, &fakeSource{}, WithCapacity(4))
	assert.NotNil(t, small.Pad4())
	assert.Nil(t, small.Pad5())
}

func TestHotplugConnectThenPoll(t *testing.T) {
	src := &hotplugSource{}
	p, clock := newTestPlugin(t, src)
	p.Start()
	require.NotNil(t, src.handler)

	src.Set(RawSnapshot{Index: 3, Buttons: buttons(4, nil)})
	src.handler.Connected(3)
	tick(t, p, clock)

	assert.True(t, p.Pad1().Connected())
	raw, ok := p.Pad1().RawIndex()
	assert.True(t, ok)
	assert.Equal(t, 3, raw)
	assert.Equal(t, 1, p.ConnectedCount())
}

func TestDuplicateConnectIgnored(t *testing.T) {
	src := &hotplugSource{}
	p, clock := newTestPlugin(t, src)
	p.Start()

	src.Set(RawSnapshot{Index: 2})
	src.handler.Connected(2)
	src.handler.Connected(2)
	tick(t, p, clock)

	assert.Equal(t, 1, p.ConnectedCount())
	assert.False(t, p.Pad2().Connected())
}

func TestHotplugDisconnectUnbindsTheRightPad(t *testing.T) {
	src := &hotplugSource{}
	src.Set(RawSnapshot{Index: 0}, RawSnapshot{Index: 1})
	p, clock := newTestPlugin(t, src)
	p.Start()
	require.Equal(t, 2, p.ConnectedCount())

	src.Set(RawSnapshot{Index: 1})
	src.handler.Disconnected(0)
	tick(t, p, clock)

	assert.False(t, p.Pad1().Connected())
	assert.True(t, p.Pad2().Connected())
	raw, _ := p.Pad2().RawIndex()
	assert.Equal(t, 1, raw)
}

func TestStopUnsubscribesAndDisablesPolling(t *testing.T) {
	src := &hotplugSource{}
	p, clock := newTestPlugin(t, src)
	p.Start()
	p.Stop()

	assert.True(t, src.unsubscribed)
	assert.False(t, p.Update(clock.Advance(time.Second)))
}

func TestPollingIsIntervalGated(t *testing.T) {
	src := &fakeSource{}
	src.Set()
	p, clock := newTestPlugin(t, src)
	p.Start()
	reads := src.Reads()

	polls := 0
	for elapsed := 16 * time.Millisecond; elapsed <= 300*time.Millisecond; elapsed += 16 * time.Millisecond {
		if p.Update(clock.Advance(16 * time.Millisecond)) {
			polls++
		}
	}

	assert.Equal(t, 2, polls)
	assert.Equal(t, reads+2, src.Reads())
}

func TestStableBindingsSurviveReorder(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 2, Name: "a"}, RawSnapshot{Index: 5, Name: "b"})
	p, clock := newTestPlugin(t, src)
	p.Start()

	src.Set(RawSnapshot{Index: 5, Name: "b"}, RawSnapshot{Index: 2, Name: "a"})
	tick(t, p, clock)

	raw1, _ := p.Pad1().RawIndex()
	raw2, _ := p.Pad2().RawIndex()
	assert.Equal(t, 2, raw1)
	assert.Equal(t, 5, raw2)
	assert.Equal(t, "a", p.Pad1().Name())
}

func TestNewDeviceTakesLowestFreePad(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 2}, RawSnapshot{Index: 5})
	p, clock := newTestPlugin(t, src)
	p.Start()

	src.Set(RawSnapshot{Index: 5})
	tick(t, p, clock)
	assert.False(t, p.Pad1().Connected())
	assert.True(t, p.Pad2().Connected())

	src.Set(RawSnapshot{Index: 5}, RawSnapshot{Index: 7}, RawSnapshot{Index: 8})
	tick(t, p, clock)

	raw, _ := p.Pad1().RawIndex()
	assert.Equal(t, 7, raw)
	raw, _ = p.Pad2().RawIndex()
	assert.Equal(t, 5, raw)
	raw, _ = p.Pad3().RawIndex()
	assert.Equal(t, 8, raw)
}

func TestNoDevicesDisconnectsAll(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0}, RawSnapshot{Index: 1})
	p, clock := newTestPlugin(t, src)
	p.Start()
	require.Equal(t, 2, p.ConnectedCount())

	src.Set()
	tick(t, p, clock)
	assert.Equal(t, 0, p.ConnectedCount())
}

func TestUnavailableSourceKeepsBindings(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0})
	p, clock := newTestPlugin(t, src)
	p.Start()

	src.mu.Lock()
	src.snaps = nil
	src.mu.Unlock()
	tick(t, p, clock)

	assert.True(t, p.Pad1().Connected())
}

func TestIndicesBeyondCapacityDropped(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0}, RawSnapshot{Index: 4}, RawSnapshot{Index: 1})
	p, _ := newTestPlugin(t, src, WithCapacity(2))
	p.Start()

	assert.Equal(t, 2, p.ConnectedCount())
	raw, _ := p.Pad2().RawIndex()
	assert.Equal(t, 1, raw)
}

func TestDisconnectClearsHistory(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0, Buttons: buttons(2, map[int]float64{0: 1}), Axes: []float64{0, 0}})
	p, clock := newTestPlugin(t, src)
	p.Start()
	tick(t, p, clock)
	require.True(t, p.Pad1().IsDown(0))

	src.Set()
	tick(t, p, clock)

	_, ok := p.Pad1().Button(0)
	assert.False(t, ok)
	_, ok = p.Pad1().Axis(0)
	assert.False(t, ok)
}

func TestDisconnectKeepsHistoryWhenAsked(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 0, Buttons: buttons(2, map[int]float64{0: 1})})
	p, clock := newTestPlugin(t, src, WithClearOnDisconnect(false))
	p.Start()
	tick(t, p, clock)

	src.Set()
	tick(t, p, clock)

	assert.True(t, p.Pad1().IsDown(0))
	assert.False(t, p.IsDown(0), "aggregate only asks connected pads")
}

func TestRescanAlwaysKeepsBindings(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{Index: 1}, RawSnapshot{Index: 0})
	p, clock := newTestPlugin(t, src, WithRescanAlways(true))
	p.Start()

	for i := 0; i < 3; i++ {
		tick(t, p, clock)
		raw, _ := p.Pad1().RawIndex()
		assert.Equal(t, 1, raw)
	}
}

func TestConnectionInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const capacity = 4

	src := &hotplugSource{}
	p, clock := newTestPlugin(t, src, WithCapacity(capacity))
	p.Start()

	for step := 0; step < 500; step++ {
		var snaps []RawSnapshot
		for _, idx := range rng.Perm(8) {
			if rng.Intn(2) == 0 {
				snaps = append(snaps, RawSnapshot{Index: idx})
			}
		}
		src.Set(snaps...)

		for n := rng.Intn(3); n > 0; n-- {
			if rng.Intn(2) == 0 {
				src.handler.Connected(rng.Intn(8))
			} else {
				src.handler.Disconnected(rng.Intn(8))
			}
		}
		tick(t, p, clock)

		present := map[int]bool{}
		for _, s := range snaps {
			if s.Index < capacity {
				present[s.Index] = true
			}
		}

		bound := map[int]bool{}
		for i := 0; i < p.Capacity(); i++ {
			raw, ok := p.Pad(i).RawIndex()
			if !p.Pad(i).Connected() {
				require.False(t, ok)
				continue
			}
			require.False(t, bound[raw], "raw %d bound twice", raw)
			require.True(t, present[raw], "raw %d bound but absent", raw)
			bound[raw] = true
		}
		require.LessOrEqual(t, p.ConnectedCount(), min(len(present), capacity))
	}
}

func TestSetSettings(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeSource{})

	p.SetSettings(map[string]any{
		KeyPollingRate: "200",
		KeyDeadZone:    0.1,
		"UNKNOWN":      42,
	})
	assert.Equal(t, 200*time.Millisecond, p.Settings().PollingRate)
	assert.Equal(t, 0.1, p.Settings().DeadZone)
	assert.Equal(t, 0.1, p.Pad3().DeadZone())
	assert.NotContains(t, p.Settings().Map(), "UNKNOWN")

	p.SetSettings(map[string]any{
		KeyPollingRate: "fast",
		KeyDeadZone:    1.0,
	})
	assert.Equal(t, 200*time.Millisecond, p.Settings().PollingRate)
	assert.Equal(t, 0.1, p.Settings().DeadZone)

	assert.Equal(t, map[string]any{KeyPollingRate: int64(200), KeyDeadZone: 0.1}, p.Settings().Map())
}

func TestSetSettingsKeepsPadDeadZone(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeSource{})
	require.NoError(t, p.Pad2().SetDeadZone(0.1))

	p.SetSettings(map[string]any{KeyPollingRate: 100})
	assert.Equal(t, 0.1, p.Pad2().DeadZone())
	assert.Equal(t, DefaultDeadZone, p.Pad1().DeadZone())

	p.SetSettings(map[string]any{KeyDeadZone: 2.0})
	assert.Equal(t, 0.1, p.Pad2().DeadZone())

	p.SetSettings(map[string]any{KeyDeadZone: 0.3})
	assert.Equal(t, 0.3, p.Pad2().DeadZone())
}

func TestAggregateAxisTakesLowestAvailablePad(t *testing.T) {
	src := &fakeSource{}
	src.Set(
		RawSnapshot{Index: 0, Axes: []float64{0, 0, 0, 0}},
		RawSnapshot{Index: 1, Axes: []float64{0, 0, 0, 0, 0.5}},
	)
	p, clock := newTestPlugin(t, src)
	p.Start()
	tick(t, p, clock)

	v, ok := p.Axis(4)
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)

	v, ok = p.Axis(0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestStatesView(t *testing.T) {
	src := &fakeSource{}
	src.Set(RawSnapshot{
		Index:   4,
		Name:    "pad",
		Buttons: buttons(StandardButtons, map[int]float64{ButtonA: 1, ButtonL3: 1}),
		Axes:    []float64{1, 0, 0, 0},
	})
	p, clock := newTestPlugin(t, src)
	p.Start()
	tick(t, p, clock)

	states := p.States()
	require.Len(t, states, DefaultCapacity)

	s := states[0]
	assert.Equal(t, 1, s.Pad)
	assert.True(t, s.Connected)
	assert.Equal(t, 4, s.RawIndex)
	assert.Equal(t, "pad", s.Name)
	assert.Len(t, s.Buttons, StandardButtons)
	assert.True(t, s.Buttons[ButtonA].Pressed)
	assert.True(t, s.Sticks.Left.Pressed)
	assert.InDelta(t, 1.0, s.Sticks.Left.Position.X, 1e-9)

	assert.False(t, states[1].Connected)
	assert.Equal(t, -1, states[1].RawIndex)
	assert.Equal(t, 2, states[1].Pad)
}
