package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestTranspositionStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)

	key := uint64(0xDEADBEEFCAFEBABE)
	move := board.NewMove(board.E2, board.E4)

	if _, found := tt.Probe(key); found {
		t.Error("expected miss before any store")
	}

	tt.Store(key, 6, 37, BoundExact, move)

	entry, found := tt.Probe(key)
	if !found {
		t.Fatal("expected hit after store")
	}
	if entry.ToHorizon() != 6 {
		t.Errorf("ToHorizon = %d, want 6", entry.ToHorizon())
	}
	if entry.Score() != 37 {
		t.Errorf("Score = %d, want 37", entry.Score())
	}
	if entry.Bound() != BoundExact {
		t.Errorf("Bound = %v, want BoundExact", entry.Bound())
	}
}

// TestTranspositionIdempotence verifies that probing a stored entry
// repeatedly returns the same payload.
func TestTranspositionIdempotence(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(12345)
	move := board.NewMove(board.G1, board.F3)

	tt.Store(key, 4, -20, BoundLower, move)

	first, _ := tt.Probe(key)
	for i := 0; i < 5; i++ {
		again, found := tt.Probe(key)
		if !found {
			t.Fatal("expected repeated hit")
		}
		if again.Payload != first.Payload {
			t.Errorf("probe %d returned different payload: %x vs %x", i, again.Payload, first.Payload)
		}
	}
}

func TestTranspositionReplacementKeepsDeeperEntry(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(999)
	move := board.NewMove(board.D2, board.D4)

	tt.Store(key, 10, 100, BoundExact, move)
	tt.Store(key, 3, -100, BoundExact, move)

	entry, found := tt.Probe(key)
	if !found {
		t.Fatal("expected hit")
	}
	if entry.ToHorizon() != 10 {
		t.Errorf("shallower same-generation store should not replace deeper entry, got horizon %d", entry.ToHorizon())
	}
}

func TestTranspositionNewSearchAllowsReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(777)
	move := board.NewMove(board.B1, board.C3)

	tt.Store(key, 10, 50, BoundExact, move)
	tt.NewSearch()
	tt.Store(key, 2, -50, BoundUpper, move)

	entry, found := tt.Probe(key)
	if !found {
		t.Fatal("expected hit")
	}
	if entry.ToHorizon() != 2 {
		t.Errorf("entry from a new generation should replace regardless of horizon, got %d", entry.ToHorizon())
	}
}

func TestTranspositionClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(1, 5, 0, BoundExact, board.NoMove)
	tt.Clear()

	if _, found := tt.Probe(1); found {
		t.Error("expected miss after Clear")
	}
	if tt.HitRate() != 0 {
		t.Errorf("HitRate after Clear = %v, want 0", tt.HitRate())
	}
}

func TestAdjustScoreRoundTrip(t *testing.T) {
	ply := 4
	score := MateScore - 2

	stored := AdjustScoreToTT(score, ply)
	restored := AdjustScoreFromTT(stored, ply)

	if restored != score {
		t.Errorf("round trip mismatch: got %d, want %d", restored, score)
	}
}

func TestAdjustScoreLeavesNonMateScoresAlone(t *testing.T) {
	score := 150
	if AdjustScoreToTT(score, 7) != score {
		t.Errorf("non-mate score should be unaffected by AdjustScoreToTT")
	}
	if AdjustScoreFromTT(score, 7) != score {
		t.Errorf("non-mate score should be unaffected by AdjustScoreFromTT")
	}
}
