package clock_test

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/weos-rt/weos/clock"
	"github.com/weos-rt/weos/internal/mockrtos"
)

type spyCounter struct{ n int }

func (c *spyCounter) Inc() { c.n++ }

// TestTicksAcrossCoarseTickWraparound Requires: when the RTOS's 32-bit
// coarse tick counter wraps (its high nibble decreasing between two reads)
// Ticks() advances the shared overflow word, never goes backwards despite
// the raw counter decreasing, and reports exactly one wrap through the
// attached rtmetrics.Counter (spec.md §8 property 6, SPEC_FULL.md §4.C).
// mockrtos is the only injectable rtos.Provider in the tree capable of
// forcing this sequence; simrtos's real monotonic clock can't be made to
// wrap on demand in a unit test.
func TestTicksAcrossCoarseTickWraparound(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mockrtos.NewMockProvider(ctrl)
	counter := &spyCounter{}

	c := clock.New(p)
	c.SetWrapObserver(counter)

	// First reading: coarse tick's high nibble at 0xF, no pending systick
	// overflow, reload of 999 (1000 systicks per coarse tick).
	gomock.InOrder(
		p.EXPECT().SystickValue().Return(uint32(100)),
		p.EXPECT().SystickOverflowPending().Return(false),
		p.EXPECT().CoarseTick().Return(uint32(0xF0000000)),
		p.EXPECT().SystickValue().Return(uint32(200)),
		p.EXPECT().SystickOverflowPending().Return(false),
		p.EXPECT().CoarseTick().Return(uint32(0xF0000000)),
		p.EXPECT().SystickReload().Return(uint32(999)),
	)
	first := c.Ticks()

	// Second reading: the coarse tick counter has wrapped past its 32-bit
	// range, so its high nibble is now lower than before.
	gomock.InOrder(
		p.EXPECT().SystickValue().Return(uint32(100)),
		p.EXPECT().SystickOverflowPending().Return(false),
		p.EXPECT().CoarseTick().Return(uint32(0x00000000)),
		p.EXPECT().SystickValue().Return(uint32(200)),
		p.EXPECT().SystickOverflowPending().Return(false),
		p.EXPECT().CoarseTick().Return(uint32(0x00000000)),
		p.EXPECT().SystickReload().Return(uint32(999)),
	)
	second := c.Ticks()

	if second <= first {
		t.Fatalf("Ticks went backwards across a coarse tick wraparound: %d -> %d", first, second)
	}
	if counter.n != 1 {
		t.Fatalf("wrap observer Inc() count = %d, want exactly 1", counter.n)
	}
}
