package twq_test

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/weos-rt/weos/internal/mockrtos"
	"github.com/weos-rt/weos/twq"
)

// TestEnrollNotifyOneDispatchThroughSVC Requires: outside interrupt context,
// Enroll and NotifyOne each check InInterrupt() first and then run their
// linking/notifying work inside exactly one SVCCall, in that order
// (spec.md §4.A's "as if dispatched through a supervisor call" contract) —
// a property simrtos.Provider's real dispatch loop satisfies by
// construction but doesn't let a test observe the call sequence directly.
func TestEnrollNotifyOneDispatchThroughSVC(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mockrtos.NewMockProvider(ctrl)

	var svcCalls int
	runSVC := func(fn func()) { svcCalls++; fn() }

	first := p.EXPECT().InInterrupt().Return(false)
	second := p.EXPECT().SVCCall(gomock.Any()).Do(runSVC).After(first)
	third := p.EXPECT().InInterrupt().Return(false).After(second)
	p.EXPECT().SVCCall(gomock.Any()).Do(runSVC).After(third)

	q := twq.New(p)
	q.Enroll(1)
	q.NotifyOne()

	if svcCalls < 2 {
		t.Fatalf("expected Enroll and NotifyOne to each dispatch through SVCCall, got %d calls", svcCalls)
	}
}
