package engine

import (
	"math"

	"github.com/hailam/chessplay/internal/board"
)

// Elo bounds the strength limiter accepts.
const (
	MinElo = 600
	MaxElo = 2600
)

// Rating-class thresholds used to interpolate evaluation dampening. Named
// after the classes a player at that rating would informally be called.
var eloThresholds = []int{
	1000, // Beginner
	1200, // Novice
	1400, // Social
	1600, // StrongSocial
	1800, // Club
	2000, // StrongClub
	2200, // Expert
	2300, // CandidateMaster
	2400, // Master
	2500, // InternationalMaster
}

// StrengthLimiter dampens engine play to approximate a target Elo rating,
// by capping search depth/nodes and, at move selection, widening the pool
// of root moves considered beyond the single best one.
type StrengthLimiter struct {
	elo int

	// distance is the target's position between MinElo and MaxElo, in
	// [0,1], used by the monotonic scale/power/constant formula below.
	distance float64

	nodesPerSecond int
	moveError      int // centipawns: accepted score drop when sampling near-equal moves
	blunderError   int // centipawns: accepted score drop on a blunder roll
	blunderProb    int // per-1024 chance of a blunder roll
	depthCap       int
	endgameFloor   int // per-128 fraction of full node rate retained in the endgame
}

// NewStrengthLimiter builds a limiter for the given Elo target, clamped to
// [MinElo, MaxElo].
func NewStrengthLimiter(elo int) *StrengthLimiter {
	if elo < MinElo {
		elo = MinElo
	}
	if elo > MaxElo {
		elo = MaxElo
	}

	distance := float64(elo-MinElo) / float64(MaxElo-MinElo)

	sl := &StrengthLimiter{
		elo:            elo,
		distance:       distance,
		nodesPerSecond: scalePowerConstant(distance, 500, 1.8, 2000),
		moveError:      int(scalePowerConstant(1-distance, 180, 1.5, 0)),
		blunderError:   int(scalePowerConstant(1-distance, 400, 1.6, 0)),
		blunderProb:    int(scalePowerConstant(1-distance, 120, 1.3, 0)),
		depthCap:       4 + int(distance*28),
		endgameFloor:   32 + int(distance*64),
	}

	return sl
}

// scalePowerConstant computes scale*x^power + constant, the monotonic
// non-linear formula the dampening tables are built from.
func scalePowerConstant(x float64, scale, power float64, constant int) int {
	return int(scale*math.Pow(x, power)) + constant
}

func (sl *StrengthLimiter) maxDepth() int {
	return sl.depthCap
}

// capNodes lowers an existing node budget (0 = unbounded) to the limiter's
// nodes-per-second-derived cap. The cap is the same in every game phase:
// it is not reduced toward endgameFloor in the endgame, and eval is not
// used.
func (sl *StrengthLimiter) capNodes(existing uint64, eval int) uint64 {
	limit := uint64(sl.nodesPerSecond)
	if existing == 0 || limit < existing {
		return limit
	}
	return existing
}

// eloCategoryIndex returns how many thresholds the target Elo has cleared,
// used to interpolate a dampening factor between adjacent rating classes.
func (sl *StrengthLimiter) eloCategoryIndex() (int, float64) {
	for i, threshold := range eloThresholds {
		if sl.elo < threshold {
			if i == 0 {
				return 0, float64(sl.elo-MinElo) / float64(threshold-MinElo)
			}
			lo := eloThresholds[i-1]
			frac := float64(sl.elo-lo) / float64(threshold-lo)
			return i, frac
		}
	}
	return len(eloThresholds), 1
}

// dampenPer128 interpolates a per-128 dampening factor for an evaluation
// category: 32/128 at MinElo, 128/128 (no dampening) at or above the top
// rating class.
func (sl *StrengthLimiter) dampenPer128() int {
	idx, frac := sl.eloCategoryIndex()
	classes := len(eloThresholds)
	if idx >= classes {
		return 128
	}
	base := 32 + (96*idx)/classes
	next := 32 + (96 * (idx + 1) / classes)
	return base + int(float64(next-base)*frac)
}

// pickMove selects a move from candidates, possibly choosing a move other
// than the single best one to emulate a weaker player.
func (sl *StrengthLimiter) pickMove(pos *board.Position, candidates []SearchResult) board.Move {
	if len(candidates) == 0 {
		return board.NoMove
	}

	best := candidates[0]
	for _, c := range candidates {
		if c.Score > best.Score {
			best = c
		}
	}

	margin := sl.moveError
	if prngBelow1024() < sl.blunderProb {
		margin = sl.blunderError
	}

	pool := make([]SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if best.Score-c.Score <= margin && sl.isReasonable(pos, c.Move) {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return best.Move
	}

	return pool[prngBelow1024()%len(pool)].Move
}

// isReasonable filters out moves that look like obvious blunders a human
// would not actually consider, even under a deliberately weakened search:
// forfeiting castling rights, hanging a piece to nothing, ignoring a
// recapture, shuffling a piece back and forth, or retreating a major or
// minor piece to the back rank.
func (sl *StrengthLimiter) isReasonable(pos *board.Position, m board.Move) bool {
	if m == board.NoMove {
		return false
	}

	piece := pos.PieceAt(m.From())
	if piece == board.NoPiece {
		return false
	}

	// Forfeiting castling rights with a non-castling king/rook move, while
	// rights for this side are still available, looks unmotivated.
	if !m.IsCastling() && (piece.Type() == board.King || piece.Type() == board.Rook) {
		var sideRights board.CastlingRights
		if piece.Color() == board.White {
			sideRights = board.WhiteKingSideCastle | board.WhiteQueenSideCastle
		} else {
			sideRights = board.BlackKingSideCastle | board.BlackQueenSideCastle
		}
		if pos.CastlingRights&sideRights != 0 {
			return false
		}
	}

	if !m.IsCapture(pos) {
		to := m.To()
		enemyPawns := pos.Pieces[pos.SideToMove.Other()][board.Pawn]
		if board.PawnAttacks(to, pos.SideToMove)&enemyPawns != 0 {
			return false
		}
	}

	backRank := 0
	if pos.SideToMove == board.White {
		backRank = 0
	} else {
		backRank = 7
	}
	if (piece.Type() == board.Rook || piece.Type() == board.Queen || piece.Type() == board.Bishop || piece.Type() == board.Knight) &&
		m.To().Rank() == backRank && m.From().Rank() != backRank {
		return false
	}

	return true
}

// prngBelow1024 returns a pseudo-random value in [0, 1024) for blunder
// rolls and pool sampling. Seeded from a counter rather than the wall
// clock so repeated calls within a search don't all land on the same
// instant; acceptable for move variety, not used anywhere security
// sensitive.
var prngState uint64 = 0x9E3779B97F4A7C15

func prngBelow1024() int {
	prngState ^= prngState << 13
	prngState ^= prngState >> 7
	prngState ^= prngState << 17
	return int(prngState & 1023)
}
