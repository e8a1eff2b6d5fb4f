package engine

// EvalConfig is a plain-data record of every tunable evaluation weight.
// Evaluate and its helpers never read literal weights directly: they read
// the package-level vars in eval.go, which applyEvalConfig populates from a
// record like this one. Retuning the evaluator is therefore a matter of
// building a new EvalConfig and calling SetEvalConfig, not editing eval.go.
type EvalConfig struct {
	PawnValue   int
	KnightValue int
	BishopValue int
	RookValue   int
	QueenValue  int
	KingValue   int

	PassedPawnBonus [8]int

	PassedPawnConnectedBonus int
	PassedPawnProtectedBonus int
	PassedPawnFreePathBonus  int
	PassedPawnUnstoppableBonus int

	MobilityMgWeight [6]int
	MobilityEgWeight [6]int

	AttackerWeight       [6]int
	PawnShieldBonus      int
	PawnShieldMissing    int
	OpenFileNearKing     int
	SemiOpenFileNearKing int

	BishopPairMgBonus int
	BishopPairEgBonus int

	RookOpenFileMg     int
	RookOpenFileEg     int
	RookSemiOpenFileMg int
	RookSemiOpenFileEg int

	DoubledPawnMgPenalty  int
	DoubledPawnEgPenalty  int
	IsolatedPawnMgPenalty int
	IsolatedPawnEgPenalty int
	BackwardPawnMgPenalty int
	BackwardPawnEgPenalty int

	KnightOutpostMg          int
	KnightOutpostEg          int
	KnightOutpostProtectedMg int
	KnightOutpostProtectedEg int
	BishopOutpostMg          int
	BishopOutpostEg          int

	TempoBonus int

	HangingPiecePenalty int
	ThreatByPawnBonus   int
	ThreatByMinorBonus  int
	LoosePiecePenalty   int

	TropismWeight     [6]int
	KingDistanceBonus [8]int

	RookOn7thMg          int
	RookOn7thEg          int
	RookOn7thWithPawnsMg int
	RookOn7thWithPawnsEg int
	DoubleRooksOn7thMg   int
	DoubleRooksOn7thEg   int
	ConnectedRooksMg     int
	ConnectedRooksEg     int
	DoubledRooksOnFileMg int
	DoubledRooksOnFileEg int

	SpaceSquareBonus     int
	SpaceBehindPawnBonus int
	SpaceMinPieces       int

	BadBishopPenaltyMg     int
	BadBishopPenaltyEg     int
	TrappedBishopPenaltyMg int
	TrappedBishopPenaltyEg int
	TrappedRookPenaltyMg   int
	TrappedRookPenaltyEg   int
	KnightRimPenaltyMg     int
	KnightRimPenaltyEg     int
	KnightCornerPenaltyMg  int
	KnightCornerPenaltyEg  int

	KnightPhaseWeight int
	BishopPhaseWeight int
	RookPhaseWeight   int
	QueenPhaseWeight  int
	MaxPhase          int
}

// DefaultEvalConfig returns the shipped evaluation weights.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		PawnValue:   100,
		KnightValue: 320,
		BishopValue: 330,
		RookValue:   500,
		QueenValue:  900,
		KingValue:   20000,

		PassedPawnBonus:           [8]int{0, 10, 20, 40, 70, 120, 200, 0},
		PassedPawnConnectedBonus:  20,
		PassedPawnProtectedBonus:  15,
		PassedPawnFreePathBonus:   30,
		PassedPawnUnstoppableBonus: 200,

		MobilityMgWeight: [6]int{0, 4, 5, 2, 1, 0},
		MobilityEgWeight: [6]int{0, 3, 4, 4, 2, 0},

		AttackerWeight:       [6]int{0, 20, 20, 40, 80, 0},
		PawnShieldBonus:      10,
		PawnShieldMissing:    -15,
		OpenFileNearKing:     -20,
		SemiOpenFileNearKing: -10,

		BishopPairMgBonus: 25,
		BishopPairEgBonus: 50,

		RookOpenFileMg:     20,
		RookOpenFileEg:     25,
		RookSemiOpenFileMg: 10,
		RookSemiOpenFileEg: 15,

		DoubledPawnMgPenalty:  -15,
		DoubledPawnEgPenalty:  -20,
		IsolatedPawnMgPenalty: -20,
		IsolatedPawnEgPenalty: -25,
		BackwardPawnMgPenalty: -15,
		BackwardPawnEgPenalty: -10,

		KnightOutpostMg:          25,
		KnightOutpostEg:          15,
		KnightOutpostProtectedMg: 15,
		KnightOutpostProtectedEg: 10,
		BishopOutpostMg:          15,
		BishopOutpostEg:          10,

		TempoBonus: 10,

		HangingPiecePenalty: -40,
		ThreatByPawnBonus:   25,
		ThreatByMinorBonus:  20,
		LoosePiecePenalty:   -10,

		TropismWeight:     [6]int{0, 3, 2, 2, 5, 0},
		KingDistanceBonus: [8]int{0, 0, 10, 20, 30, 40, 50, 60},

		RookOn7thMg:          30,
		RookOn7thEg:          40,
		RookOn7thWithPawnsMg: 15,
		RookOn7thWithPawnsEg: 20,
		DoubleRooksOn7thMg:   50,
		DoubleRooksOn7thEg:   60,
		ConnectedRooksMg:     10,
		ConnectedRooksEg:     15,
		DoubledRooksOnFileMg: 20,
		DoubledRooksOnFileEg: 25,

		SpaceSquareBonus:     2,
		SpaceBehindPawnBonus: 3,
		SpaceMinPieces:       3,

		BadBishopPenaltyMg:     -5,
		BadBishopPenaltyEg:     -10,
		TrappedBishopPenaltyMg: -80,
		TrappedBishopPenaltyEg: -50,
		TrappedRookPenaltyMg:   -50,
		TrappedRookPenaltyEg:   -25,
		KnightRimPenaltyMg:     -15,
		KnightRimPenaltyEg:     -10,
		KnightCornerPenaltyMg:  -30,
		KnightCornerPenaltyEg:  -20,

		KnightPhaseWeight: 5,
		BishopPhaseWeight: 5,
		RookPhaseWeight:   11,
		QueenPhaseWeight:  22,
		MaxPhase:          128,
	}
}

var currentEvalConfig = DefaultEvalConfig()

// positionalDampenPer128 scales the non-material, non-PST evaluation terms
// (passed pawns, mobility, king safety, coordination, ...). 128 = no
// dampening; a weaker StrengthLimiter lowers this to emulate a player who
// undervalues positional factors while still counting material correctly.
var positionalDampenPer128 = 128

func init() {
	applyEvalConfig(currentEvalConfig)
}

// SetPositionalDampening sets the per-128 scale applied to positional
// evaluation terms; 128 disables dampening.
func SetPositionalDampening(per128 int) {
	positionalDampenPer128 = per128
}

// CurrentEvalConfig returns the evaluation weights currently in effect.
func CurrentEvalConfig() EvalConfig {
	return currentEvalConfig
}

// SetEvalConfig replaces the evaluation weights wholesale and is the "bulk
// copy" operation hosts use to retune the evaluator at runtime.
func SetEvalConfig(cfg EvalConfig) {
	currentEvalConfig = cfg
	applyEvalConfig(cfg)
}

// ResetEvalConfig restores the shipped defaults.
func ResetEvalConfig() {
	SetEvalConfig(DefaultEvalConfig())
}

// applyEvalConfig copies a config's fields into the package-level vars the
// evaluation formulae actually read.
func applyEvalConfig(cfg EvalConfig) {
	PawnValue = cfg.PawnValue
	KnightValue = cfg.KnightValue
	BishopValue = cfg.BishopValue
	RookValue = cfg.RookValue
	QueenValue = cfg.QueenValue
	KingValue = cfg.KingValue
	pieceValues = [7]int{cfg.PawnValue, cfg.KnightValue, cfg.BishopValue, cfg.RookValue, cfg.QueenValue, cfg.KingValue, 0}

	passedPawnBonus = cfg.PassedPawnBonus
	passedPawnConnectedBonus = cfg.PassedPawnConnectedBonus
	passedPawnProtectedBonus = cfg.PassedPawnProtectedBonus
	passedPawnFreePathBonus = cfg.PassedPawnFreePathBonus
	passedPawnUnstoppableBonus = cfg.PassedPawnUnstoppableBonus

	mobilityMgWeight = cfg.MobilityMgWeight
	mobilityEgWeight = cfg.MobilityEgWeight

	attackerWeight = cfg.AttackerWeight
	pawnShieldBonus = cfg.PawnShieldBonus
	pawnShieldMissing = cfg.PawnShieldMissing
	openFileNearKing = cfg.OpenFileNearKing
	semiOpenFileNearKing = cfg.SemiOpenFileNearKing

	bishopPairMgBonus = cfg.BishopPairMgBonus
	bishopPairEgBonus = cfg.BishopPairEgBonus

	rookOpenFileMg = cfg.RookOpenFileMg
	rookOpenFileEg = cfg.RookOpenFileEg
	rookSemiOpenFileMg = cfg.RookSemiOpenFileMg
	rookSemiOpenFileEg = cfg.RookSemiOpenFileEg

	doubledPawnMgPenalty = cfg.DoubledPawnMgPenalty
	doubledPawnEgPenalty = cfg.DoubledPawnEgPenalty
	isolatedPawnMgPenalty = cfg.IsolatedPawnMgPenalty
	isolatedPawnEgPenalty = cfg.IsolatedPawnEgPenalty
	backwardPawnMgPenalty = cfg.BackwardPawnMgPenalty
	backwardPawnEgPenalty = cfg.BackwardPawnEgPenalty

	knightOutpostMg = cfg.KnightOutpostMg
	knightOutpostEg = cfg.KnightOutpostEg
	knightOutpostProtectedMg = cfg.KnightOutpostProtectedMg
	knightOutpostProtectedEg = cfg.KnightOutpostProtectedEg
	bishopOutpostMg = cfg.BishopOutpostMg
	bishopOutpostEg = cfg.BishopOutpostEg

	tempoBonus = cfg.TempoBonus

	hangingPiecePenalty = cfg.HangingPiecePenalty
	threatByPawnBonus = cfg.ThreatByPawnBonus
	threatByMinorBonus = cfg.ThreatByMinorBonus
	loosePiecePenalty = cfg.LoosePiecePenalty

	tropismWeight = cfg.TropismWeight
	kingDistanceBonus = cfg.KingDistanceBonus

	rookOn7thMg = cfg.RookOn7thMg
	rookOn7thEg = cfg.RookOn7thEg
	rookOn7thWithPawnsMg = cfg.RookOn7thWithPawnsMg
	rookOn7thWithPawnsEg = cfg.RookOn7thWithPawnsEg
	doubleRooksOn7thMg = cfg.DoubleRooksOn7thMg
	doubleRooksOn7thEg = cfg.DoubleRooksOn7thEg
	connectedRooksMg = cfg.ConnectedRooksMg
	connectedRooksEg = cfg.ConnectedRooksEg
	doubledRooksOnFileMg = cfg.DoubledRooksOnFileMg
	doubledRooksOnFileEg = cfg.DoubledRooksOnFileEg

	spaceSquareBonus = cfg.SpaceSquareBonus
	spaceBehindPawnBonus = cfg.SpaceBehindPawnBonus
	spaceMinPieces = cfg.SpaceMinPieces

	badBishopPenaltyMg = cfg.BadBishopPenaltyMg
	badBishopPenaltyEg = cfg.BadBishopPenaltyEg
	trappedBishopPenaltyMg = cfg.TrappedBishopPenaltyMg
	trappedBishopPenaltyEg = cfg.TrappedBishopPenaltyEg
	trappedRookPenaltyMg = cfg.TrappedRookPenaltyMg
	trappedRookPenaltyEg = cfg.TrappedRookPenaltyEg
	knightRimPenaltyMg = cfg.KnightRimPenaltyMg
	knightRimPenaltyEg = cfg.KnightRimPenaltyEg
	knightCornerPenaltyMg = cfg.KnightCornerPenaltyMg
	knightCornerPenaltyEg = cfg.KnightCornerPenaltyEg

	knightPhaseWeight = cfg.KnightPhaseWeight
	bishopPhaseWeight = cfg.BishopPhaseWeight
	rookPhaseWeight = cfg.RookPhaseWeight
	queenPhaseWeight = cfg.QueenPhaseWeight
	maxPhase = cfg.MaxPhase
}
