package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestNewStrengthLimiterClampsElo(t *testing.T) {
	low := NewStrengthLimiter(0)
	if low.elo != MinElo {
		t.Errorf("elo = %d, want clamped to %d", low.elo, MinElo)
	}

	high := NewStrengthLimiter(9999)
	if high.elo != MaxElo {
		t.Errorf("elo = %d, want clamped to %d", high.elo, MaxElo)
	}
}

func TestStrengthLimiterMonotonicity(t *testing.T) {
	weak := NewStrengthLimiter(MinElo)
	mid := NewStrengthLimiter(1600)
	strong := NewStrengthLimiter(MaxElo)

	if !(weak.maxDepth() <= mid.maxDepth() && mid.maxDepth() <= strong.maxDepth()) {
		t.Errorf("depth cap should be non-decreasing in elo: %d, %d, %d",
			weak.maxDepth(), mid.maxDepth(), strong.maxDepth())
	}
	if !(weak.nodesPerSecond <= mid.nodesPerSecond && mid.nodesPerSecond <= strong.nodesPerSecond) {
		t.Errorf("nodes/sec should be non-decreasing in elo: %d, %d, %d",
			weak.nodesPerSecond, mid.nodesPerSecond, strong.nodesPerSecond)
	}
	if !(weak.moveError >= mid.moveError && mid.moveError >= strong.moveError) {
		t.Errorf("move error should be non-increasing in elo: %d, %d, %d",
			weak.moveError, mid.moveError, strong.moveError)
	}
}

func TestDampenPer128Bounds(t *testing.T) {
	weak := NewStrengthLimiter(MinElo)
	strong := NewStrengthLimiter(MaxElo)

	if d := weak.dampenPer128(); d < 1 || d > 128 {
		t.Errorf("dampenPer128 at MinElo out of range: %d", d)
	}
	if d := strong.dampenPer128(); d != 128 {
		t.Errorf("dampenPer128 at MaxElo = %d, want 128 (no dampening)", d)
	}
	if weak.dampenPer128() >= strong.dampenPer128() {
		t.Error("dampening factor should increase toward MaxElo")
	}
}

func TestCapNodesNeverRaisesAnExistingBudget(t *testing.T) {
	sl := NewStrengthLimiter(MinElo)
	existing := uint64(50)

	capped := sl.capNodes(existing, 0)
	if capped > existing && existing != 0 {
		t.Errorf("capNodes should only lower an existing budget, got %d from %d", capped, existing)
	}
}

func TestPickMoveReturnsBestWhenNoAlternative(t *testing.T) {
	sl := NewStrengthLimiter(MaxElo)
	pos := board.NewPosition()

	best := SearchResult{Move: board.NewMove(board.E2, board.E4), Score: 50}
	got := sl.pickMove(pos, []SearchResult{best})

	if got != best.Move {
		t.Errorf("pickMove with a single candidate should return it, got %s", got.String())
	}
}

func TestPickMoveEmptyCandidates(t *testing.T) {
	sl := NewStrengthLimiter(1600)
	pos := board.NewPosition()

	if got := sl.pickMove(pos, nil); got != board.NoMove {
		t.Errorf("pickMove with no candidates should return NoMove, got %s", got.String())
	}
}

func TestIsReasonableRejectsNoMove(t *testing.T) {
	sl := NewStrengthLimiter(1600)
	pos := board.NewPosition()

	if sl.isReasonable(pos, board.NoMove) {
		t.Error("NoMove should never be reasonable")
	}
}

func TestEngineSetStrengthAppliesPositionalDampening(t *testing.T) {
	eng := NewEngine(1)

	eng.SetStrength(MinElo)
	if positionalDampenPer128 == 128 {
		t.Error("expected dampening to be active for a MinElo limiter")
	}

	eng.SetStrength(0)
	if positionalDampenPer128 != 128 {
		t.Errorf("disabling strength should reset dampening to 128, got %d", positionalDampenPer128)
	}
}
