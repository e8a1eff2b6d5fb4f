package engine

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

func TestTimeManagerMoveTimeIsExact(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{MoveTime: 2 * time.Second}

	tm.Init(limits, board.White, 0)

	if tm.Maximum() != 2*time.Second {
		t.Errorf("Maximum = %v, want 2s", tm.Maximum())
	}
	if tm.OptimumTime() != 2*time.Second {
		t.Errorf("OptimumTime = %v, want 2s", tm.OptimumTime())
	}
}

func TestTimeManagerSuddenDeathAllocatesFraction(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{Time: [2]time.Duration{20 * time.Second, 20 * time.Second}}

	tm.Init(limits, board.White, 0)

	if tm.OptimumTime() <= 0 {
		t.Error("expected a positive soft limit")
	}
	if tm.Maximum() < tm.OptimumTime() {
		t.Error("hard limit must not be less than the soft limit")
	}
	if tm.Maximum() >= 20*time.Second {
		t.Error("hard limit should not consume the entire remaining clock in one move")
	}
}

func TestTimeManagerLowTimeFallsBackToEmergencyAllocation(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{Time: [2]time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, MovesToGo: 1}

	tm.Init(limits, board.White, 0)

	if tm.Maximum() > 500*time.Millisecond {
		t.Errorf("Maximum = %v, must not exceed remaining time", tm.Maximum())
	}
	if tm.Maximum() < 0 {
		t.Error("Maximum must never go negative")
	}
}

func TestTimeManagerExtendSoftBoundedByHard(t *testing.T) {
	tm := NewTimeManager()
	limits := UCILimits{Time: [2]time.Duration{60 * time.Second, 60 * time.Second}}
	tm.Init(limits, board.White, 0)

	before := tm.OptimumTime()
	tm.ExtendSoft()
	after := tm.OptimumTime()

	if after <= before {
		t.Error("ExtendSoft should enlarge the soft limit")
	}
	if after > tm.MaximumTime() {
		t.Error("ExtendSoft must not exceed the hard limit")
	}

	// Repeated extension should converge on the hard limit, not exceed it.
	for i := 0; i < 10; i++ {
		tm.ExtendSoft()
	}
	if tm.OptimumTime() > tm.MaximumTime() {
		t.Error("repeated ExtendSoft must stay bounded by the hard limit")
	}
}

func TestTimeManagerInfiniteGetsLongHorizon(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{Infinite: true}, board.White, 0)

	if tm.Maximum() < time.Minute {
		t.Errorf("infinite search should not be given a short deadline, got %v", tm.Maximum())
	}
}

func TestHaveTimeForNextIteration(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{MoveTime: 1 * time.Second}, board.White, 0)

	if !tm.HaveTimeForNextIteration(0) {
		t.Error("expected time available immediately after starting")
	}
	if tm.HaveTimeForNextIteration(900 * time.Millisecond) {
		t.Error("expected no time left for another iteration near the soft limit")
	}
}
