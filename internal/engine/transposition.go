package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// ScoreBound indicates the precision of a cached score.
type ScoreBound uint8

const (
	BoundNone  ScoreBound = iota // slot has never been written
	BoundExact                   // exact score
	BoundLower                   // failed high (beta cutoff)
	BoundUpper                   // failed low
)

// Payload bit layout (64 bits):
//
//	bits 0-15:  best move identity (from[6] | to[6] | promotion+1[4]),
//	            matching board.Move's own low 16 bits so packing/unpacking
//	            is a plain truncation.
//	bits 16-23: to-horizon (remaining search depth at store time)
//	bits 24-25: score bound (ScoreBound)
//	bits 26-41: dynamic score, signed
//	bits 42-63: last-accessed generation counter
const (
	payloadMoveMask    = 0xFFFF
	payloadHorizonMask = 0xFF
	payloadBoundMask   = 0x3
	payloadScoreMask   = 0xFFFF
	payloadGenMask     = 0x3FFFFF

	payloadHorizonShift = 16
	payloadBoundShift    = 24
	payloadScoreShift    = 26
	payloadGenShift      = 42
)

// CachedPosition is one slot of the transposition cache: a 64-bit Zobrist
// key plus a 64-bit packed payload.
type CachedPosition struct {
	Key     uint64
	Payload uint64
}

// MoveBits returns the packed from/to/promotion identity bits.
func (c CachedPosition) MoveBits() uint16 {
	return uint16(c.Payload & payloadMoveMask)
}

// BestMove reconstructs the full tagged move stored in this entry, given
// the position it is about to be played in (see board.ReconstructMove).
func (c CachedPosition) BestMove(pos *board.Position) board.Move {
	bits := c.MoveBits()
	if bits == 0 {
		return board.NoMove
	}
	from := board.Square(bits & 0x3F)
	to := board.Square((bits >> 6) & 0x3F)
	promoRaw := (bits >> 12) & 0xF
	promo := board.NoPieceType
	if promoRaw != 0 {
		promo = board.PieceType(promoRaw - 1)
	}
	return board.ReconstructMove(pos, from, to, promo)
}

// ToHorizon returns the remaining search depth recorded at store time.
func (c CachedPosition) ToHorizon() int {
	return int(c.Payload >> payloadHorizonShift & payloadHorizonMask)
}

// Bound returns the score's precision tag.
func (c CachedPosition) Bound() ScoreBound {
	return ScoreBound(c.Payload >> payloadBoundShift & payloadBoundMask)
}

// Score returns the signed dynamic score (not yet mate-distance adjusted).
func (c CachedPosition) Score() int {
	raw := c.Payload >> payloadScoreShift & payloadScoreMask
	return int(int16(raw))
}

// Generation returns the entry's last-accessed generation counter.
func (c CachedPosition) Generation() uint32 {
	return uint32(c.Payload >> payloadGenShift & payloadGenMask)
}

func packPayload(bestMove board.Move, toHorizon, score int, bound ScoreBound, generation uint32) uint64 {
	moveBits := uint64(uint16(bestMove))
	return moveBits |
		uint64(toHorizon&payloadHorizonMask)<<payloadHorizonShift |
		uint64(bound&payloadBoundMask)<<payloadBoundShift |
		uint64(uint16(int16(score)))<<payloadScoreShift |
		uint64(generation&payloadGenMask)<<payloadGenShift
}

// TranspositionTable is an open-addressed, fixed-capacity cache of
// CachedPosition entries indexed by key modulo capacity (one entry per
// slot — new entries simply overwrite per the replacement policy below).
type TranspositionTable struct {
	entries    []CachedPosition
	size       uint64
	mask       uint64
	generation uint32

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = uint64(16) // 8-byte key + 8-byte payload
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	return &TranspositionTable{
		entries: make([]CachedPosition, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition cache by its 64-bit key.
func (tt *TranspositionTable) Probe(key uint64) (CachedPosition, bool) {
	tt.probes++

	entry := tt.entries[key&tt.mask]
	if entry.Key == key && entry.Bound() != BoundNone {
		tt.hits++
		return entry, true
	}

	return CachedPosition{}, false
}

// Store writes a position into the cache. Replacement policy: overwrite if
// the existing slot's generation is older than the current search
// generation, or its stored to-horizon is less than the incoming one;
// otherwise keep the existing (deeper, current-generation) entry.
func (tt *TranspositionTable) Store(key uint64, toHorizon, score int, bound ScoreBound, bestMove board.Move) {
	idx := key & tt.mask
	existing := tt.entries[idx]

	if existing.Bound() == BoundNone || existing.Generation() != tt.generation || existing.ToHorizon() < toHorizon {
		tt.entries[idx] = CachedPosition{
			Key:     key,
			Payload: packPayload(bestMove, toHorizon, score, bound, tt.generation),
		}
	}
}

// NewSearch advances the generation counter. Entries from prior
// generations become eligible for replacement without being physically
// cleared.
func (tt *TranspositionTable) NewSearch() {
	tt.generation++
}

// Clear wipes every entry and resets statistics and the generation counter.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = CachedPosition{}
	}
	tt.generation = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table in use
// by the current generation.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Bound() != BoundNone && tt.entries[i].Generation() == tt.generation {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT adjusts a score read from the cache back to the
// current search ply. Mate scores are stored relative to the position
// they were found in, not the root, so the distance must be re-added.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the cache, converting a
// root-relative mate distance into a position-relative one.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
