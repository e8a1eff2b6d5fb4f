package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestResetEvalConfigRestoresDefaults(t *testing.T) {
	defer ResetEvalConfig()

	cfg := DefaultEvalConfig()
	cfg.PawnValue = 250
	SetEvalConfig(cfg)

	if PawnValue != 250 {
		t.Fatalf("PawnValue = %d after SetEvalConfig, want 250", PawnValue)
	}

	ResetEvalConfig()
	if PawnValue != DefaultEvalConfig().PawnValue {
		t.Errorf("PawnValue = %d after ResetEvalConfig, want %d", PawnValue, DefaultEvalConfig().PawnValue)
	}
}

func TestSetEvalConfigAffectsEvaluation(t *testing.T) {
	defer ResetEvalConfig()

	pos, err := board.ParseFEN("rnbqkbnr/ppp1pppp/8/3P4/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	base := Evaluate(pos)

	cfg := DefaultEvalConfig()
	cfg.PawnValue *= 10
	SetEvalConfig(cfg)

	scaled := Evaluate(pos)

	if scaled == base {
		t.Error("expected evaluation to change after scaling pawn value")
	}
}

func TestMaxPhaseMatchesStartingPositionWeights(t *testing.T) {
	cfg := DefaultEvalConfig()
	sum := 4*cfg.KnightPhaseWeight + 4*cfg.BishopPhaseWeight + 4*cfg.RookPhaseWeight + 2*cfg.QueenPhaseWeight
	if sum != cfg.MaxPhase {
		t.Errorf("starting-position phase weight sum = %d, want MaxPhase %d", sum, cfg.MaxPhase)
	}
}

func TestPositionalDampeningScalesNonMaterialTerms(t *testing.T) {
	defer func() {
		SetPositionalDampening(128)
	}()

	pos, err := board.ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	SetPositionalDampening(128)
	full := Evaluate(pos)

	SetPositionalDampening(32)
	dampened := Evaluate(pos)

	if full == dampened {
		t.Error("expected dampened evaluation to differ from full strength when positional terms are non-zero")
	}
}
