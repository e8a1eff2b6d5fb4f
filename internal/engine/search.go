package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// futilityMargin[toHorizon] is the static-eval margin used by reverse
// futility pruning at internal nodes (step 4).
var futilityMargin = [9]int{0, 120, 240, 360, 480, 600, 720, 840, 960}

const futilityMaxHorizon = 8

// nullMoveReductionCap bounds the dynamic part of the null-move reduction.
const nullMoveReductionCap = 3

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// SearchBudget bounds a single call to the recursive search: any
// combination of wall-clock deadline, node budget and mate-in-k request.
// A zero value means "unbounded" for that dimension.
type SearchBudget struct {
	Deadline time.Time
	Nodes    uint64
	MateIn   int
}

// Searcher performs iterative-deepening principal-variation search with a
// single transposition cache and no shared mutable state with any other
// searcher — exactly one search runs at a time.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer

	limits SearchBudget

	nodes    uint64
	stopFlag atomic.Bool

	pv PVTable

	undoStack [MaxPly]board.UndoInfo
	evalStack [MaxPly]int

	// posHistory tracks Zobrist keys of positions played so far in the
	// game (root history) plus every position pushed during this search,
	// for repetition detection.
	posHistory    [MaxPly + 1024]uint64
	rootHistLen   int
	rootPosHashes []uint64

	bestRootMove      board.Move
	excludedRootMoves []board.Move
}

// SetExcludedMoves excludes the given moves from root move selection
// (used by multi-PV search to find successive best lines).
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.excludedRootMoves = moves
}

func (s *Searcher) isExcludedRootMove(m board.Move) bool {
	for _, e := range s.excludedRootMoves {
		if e.Equal(m) {
			return true
		}
	}
	return false
}

// IsStopped reports whether the last search was interrupted by a limit.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.orderer.Clear()
}

// ClearOrderer resets move-ordering state (killers/history/counter-moves)
// without touching the transposition cache.
func (s *Searcher) ClearOrderer() {
	s.orderer.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// SetRootHistory sets the position history from the game (for repetition
// detection of positions that occurred before this search began).
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.rootPosHashes = make([]uint64, len(hashes))
	copy(s.rootPosHashes, hashes)
}

// Search performs a fixed-depth search (used directly by tests and by the
// iterative-deepening driver below).
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	s.loadRootHistory()

	score := s.negamax(depth, 0, -Infinity, Infinity)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}

	return bestMove, score
}

func (s *Searcher) loadRootHistory() {
	s.rootHistLen = copy(s.posHistory[:], s.rootPosHashes)
}

// IterativeDeepening runs the outer loop of the search: it deepens one ply
// at a time until limits (time, nodes, mate-in-k) end the search or the
// horizon cap is reached. Root moves are ordered by the same move orderer
// as every other node (cached move first); they are not re-sorted by the
// scores of the previous iteration. infoFn, when non-nil, is called after
// every completed iteration.
func (s *Searcher) IterativeDeepening(pos *board.Position, maxDepth int, limits SearchBudget, infoFn func(depth, score int, nodes uint64, pv []board.Move)) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	s.loadRootHistory()
	s.limits = limits
	s.tt.NewSearch()

	var bestMove board.Move
	var bestScore int

	for depth := 1; depth <= maxDepth && depth < MaxPly; depth++ {
		s.orderer.Clear()

		score := s.negamax(depth, 0, -Infinity, Infinity)

		if s.stopFlag.Load() && depth > 1 {
			break
		}

		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
			bestScore = score
			s.bestRootMove = bestMove
		}

		if infoFn != nil {
			infoFn(depth, bestScore, s.nodes, s.GetPV())
		}

		if limits.MateIn > 0 {
			if plies := MateScore - abs(bestScore); plies <= 2*limits.MateIn && abs(bestScore) > MateScore-MaxPly {
				break
			}
		}

		if s.timeUp() {
			break
		}
	}

	return bestMove, bestScore
}

// shouldStop polls the time/node limits. Called every 4096 nodes, matching
// the periodic-poll suspension model: no other operation blocks or yields.
func (s *Searcher) shouldStop() bool {
	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		return true
	}
	if !s.limits.Deadline.IsZero() && time.Now().After(s.limits.Deadline) {
		return true
	}
	return false
}

func (s *Searcher) timeUp() bool {
	if s.limits.Deadline.IsZero() {
		return false
	}
	return time.Now().After(s.limits.Deadline)
}

// negamax is the recursive dynamic-score routine.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	// Step 1: terminate?
	if s.nodes&4095 == 0 && (s.stopFlag.Load() || s.shouldStop()) {
		s.stopFlag.Store(true)
		return alpha
	}

	s.nodes++
	s.pv.length[ply] = ply

	// Mate-distance pruning.
	mateAlpha := alpha
	mateBeta := beta
	if -MateScore+ply > mateAlpha {
		mateAlpha = -MateScore + ply
	}
	if MateScore-ply < mateBeta {
		mateBeta = MateScore - ply
	}
	if mateAlpha >= mateBeta {
		return mateAlpha
	}

	if ply > 0 && s.isDraw(ply) {
		return 0
	}

	isPVNode := beta-alpha > 1

	// Step 2: cache probe.
	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove(s.pos)
		// No cutoff at the root: the root must always produce a PV move.
		if ply > 0 && ttEntry.ToHorizon() >= depth {
			score := AdjustScoreFromTT(ttEntry.Score(), ply)
			switch ttEntry.Bound() {
			case BoundExact:
				if ttMove != board.NoMove && !ttMove.IsCapture(s.pos) {
					s.orderer.UpdateHistory(ttMove, depth, score >= beta)
				}
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	// Step 3: leaf.
	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	staticEval := Infinity
	if !inCheck {
		staticEval = Evaluate(s.pos)
	}
	s.evalStack[ply] = staticEval

	drawnEndgame := s.pos.IsInsufficientMaterial()
	loneKing := !s.pos.HasNonPawnMaterial() && s.pos.Pieces[board.White][board.Pawn]|s.pos.Pieces[board.Black][board.Pawn] == 0

	// Step 4: static evaluation & futility.
	if !inCheck && ply > 0 && !isPVNode && !drawnEndgame && !loneKing && depth <= futilityMaxHorizon {
		if staticEval-futilityMargin[depth] >= beta {
			return beta
		}
	}

	// Step 5: null-move reduction.
	if !inCheck && ply > 0 && !isPVNode && staticEval >= beta && s.pos.HasNonPawnMaterial() {
		reduction := 3 + min((staticEval-beta)/180, nullMoveReductionCap)
		if reduction > depth-1 {
			reduction = depth - 1
		}
		if reduction > 0 {
			undo := s.pos.MakeNullMove()
			score := -s.negamax(depth-1-reduction, ply+1, -beta, -beta+1)
			s.pos.UnmakeNullMove(undo)
			if score >= beta {
				return beta
			}
		}
	}

	// Step 6: internal iterative deepening.
	if ttMove == board.NoMove && isPVNode && depth > 2 {
		s.negamax(depth-2, ply, alpha, beta)
		if entry, ok := s.tt.Probe(s.pos.Hash); ok {
			ttMove = entry.BestMove(s.pos)
		}
	}

	// Step 7: move loop.
	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := BoundUpper
	movesSearched := 0
	quietsTried := 0

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if ply == 0 && s.isExcludedRootMove(move) {
			continue
		}

		isCapture := move.IsCapture(s.pos)
		isPromotion := move.IsPromotion()
		isQuiet := !isCapture && !isPromotion
		isKiller := move.Equal(s.orderer.killers[ply][0]) || move.Equal(s.orderer.killers[ply][1])
		is7thRank := move.IsPawnMove() && (move.To().Rank() == 1 || move.To().Rank() == 6)

		movesPruneable := movesSearched > 0 && !inCheck && !drawnEndgame

		// Move futility: late-move pruning.
		if movesPruneable && isQuiet && !move.Equal(ttMove) && !isKiller && !move.IsCastling() && !is7thRank {
			lmpLimit := depth*depth + 3
			if quietsTried >= lmpLimit {
				continue
			}
			if depth <= futilityMaxHorizon && staticEval+futilityMargin[depth] <= alpha {
				continue
			}
		}

		// SEE-threshold futility pruning on captures.
		if movesPruneable && isCapture && !move.Equal(ttMove) && depth <= futilityMaxHorizon {
			if SEE(s.pos, move) < alpha-staticEval-futilityMargin[depth] {
				continue
			}
		}

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			s.pos.UnmakeMove(move, s.undoStack[ply])
			continue
		}
		s.posHistory[s.rootHistLen+ply] = s.pos.Hash

		movesSearched++
		if isQuiet {
			quietsTried++
		}

		givesCheck := s.pos.InCheck()

		// Late move reduction.
		reduction := 0
		if movesSearched > 1 && depth >= 3 && isQuiet && !isKiller && !move.IsCastling() && !is7thRank && !givesCheck {
			reduction = lmrReduction(depth, movesSearched)
			if ply >= 2 && s.evalStack[ply] < s.evalStack[ply-2] {
				reduction++
			}
			if reduction < 0 {
				reduction = 0
			}
			if reduction > depth-1 {
				reduction = depth - 1
			}
		}

		var score int
		if movesSearched == 1 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha)
		} else {
			score = -s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha)
			}
		}

		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = BoundExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), BoundLower, bestMove)

			if isQuiet {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}
			return score
		}
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// lmrReduction implements r = scale*log2(qmn)*log2(toHorizon)/128 + const.
func lmrReduction(toHorizon, qmn int) int {
	const scale = 96
	const constant = 1
	if qmn < 1 {
		qmn = 1
	}
	if toHorizon < 1 {
		toHorizon = 1
	}
	r := scale*math.Log2(float64(qmn))*math.Log2(float64(toHorizon))/128 + constant
	if r < 0 {
		return 0
	}
	return int(r)
}

// quiescence is reached once horizon-depth is exhausted. In check it
// searches every evasion; otherwise it stands pat and searches only
// captures (with SEE-based futility).
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	const maxQuiescencePly = 32
	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(s.pos)
	}

	if s.stopFlag.Load() {
		return alpha
	}

	s.nodes++

	inCheck := s.pos.InCheck()

	var standPat int
	if !inCheck {
		standPat = Evaluate(s.pos)

		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}

		bigDelta := QueenValue
		if standPat+bigDelta < alpha {
			return alpha
		}
	}

	var moves *board.MoveList
	if inCheck {
		moves = s.pos.GenerateLegalMoves()
	} else {
		moves = s.pos.GenerateCaptures()
	}

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return alpha
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if captured := s.pos.PieceAt(move.To()); captured != board.NoPiece {
				captureValue = pieceValues[captured.Type()]
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
			if SEE(s.pos, move) < 0 {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			s.pos.UnmakeMove(move, undo)
			continue
		}

		score := -s.quiescence(ply+1, -beta, -alpha)

		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// isDraw checks for draw by the fifty-move rule, insufficient material, or
// threefold repetition against both the game's root history and the moves
// played so far in this search.
func (s *Searcher) isDraw(ply int) bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}

	// posHistory[rootHistLen+ply-1] is the current position itself, so
	// only the entries before it are scanned.
	currentHash := s.pos.Hash
	count := 0
	total := s.rootHistLen + ply - 1
	for i := 0; i < total; i++ {
		if s.posHistory[i] == currentHash {
			count++
			if count >= 2 {
				return true
			}
		}
	}

	return false
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
