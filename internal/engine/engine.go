package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	MultiPV  int           // Number of principal variations to find (0 or 1 = single best move)
	MateIn   int           // Stop once mate-in-k is found and verified (0 = no mate search)
}

// SearchResult contains the result of a single PV search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the engine's fixed difficulty presets. Strength
// below the maximum is otherwise governed by the Elo-based StrengthLimiter
// (see strength.go), which this is independent of.
type Difficulty int

const (
	Easy   Difficulty = iota // up to 3 ply, 500ms
	Medium                   // up to 7 ply, 1s
	Hard                     // Maximum strength, time-limited
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second},
}

// Engine drives a single-threaded iterative-deepening search over one
// shared transposition cache. Exactly one search runs at a time; there is
// no shared mutable state beyond the cache (see the concurrency model).
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher

	difficulty Difficulty
	strength   *StrengthLimiter

	rootPosHashes []uint64

	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)

	return &Engine{
		tt:         tt,
		searcher:   NewSearcher(tt),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetStrength enables Elo-based strength limiting at the given rating, or
// disables it if elo is 0.
func (e *Engine) SetStrength(elo int) {
	if elo <= 0 {
		e.strength = nil
		SetPositionalDampening(128)
		return
	}
	e.strength = NewStrengthLimiter(elo)
	SetPositionalDampening(e.strength.dampenPer128())
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)
	e.searcher.SetRootHistory(hashes)
}

// Search finds the best move for the given position using the current
// difficulty preset.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(pos, limits)
}

// SearchWithLimits finds the best move with specific search limits.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	if e.strength != nil && e.strength.maxDepth() < maxDepth {
		maxDepth = e.strength.maxDepth()
	}

	startTime := time.Now()
	searchLimits := SearchBudget{MateIn: limits.MateIn}
	if limits.MoveTime > 0 {
		searchLimits.Deadline = startTime.Add(limits.MoveTime)
	}
	if limits.Nodes > 0 {
		searchLimits.Nodes = limits.Nodes
	}
	if e.strength != nil {
		searchLimits.Nodes = e.strength.capNodes(searchLimits.Nodes, Evaluate(pos))
	}

	e.tt.NewSearch()

	if limits.MultiPV > 1 {
		results := e.searchMultiPV(pos, maxDepth, searchLimits, limits.MultiPV)
		if len(results) == 0 {
			return board.NoMove
		}
		return e.pickMove(pos, results)
	}

	move, score, pv := e.runSingle(pos, maxDepth, searchLimits, startTime)
	if e.strength != nil {
		candidates := []SearchResult{{Move: move, Score: score, PV: pv}}
		return e.strength.pickMove(pos, candidates)
	}
	return move
}

func (e *Engine) runSingle(pos *board.Position, maxDepth int, limits SearchBudget, startTime time.Time) (board.Move, int, []board.Move) {
	move, score := e.searcher.IterativeDeepening(pos, maxDepth, limits, func(depth, score int, nodes uint64, pv []board.Move) {
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    nodes,
				Time:     time.Since(startTime),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}
	})
	return move, score, e.searcher.GetPV()
}

// SearchWithUCILimits finds the best move using UCI time controls.
// Supports wtime/btime/winc/binc for proper tournament time management.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	if e.strength != nil && e.strength.maxDepth() < maxDepth {
		maxDepth = e.strength.maxDepth()
	}

	startTime := time.Now()
	searchLimits := SearchBudget{Nodes: limits.Nodes}
	if !limits.Infinite {
		searchLimits.Deadline = startTime.Add(tm.Maximum())
	}
	if e.strength != nil {
		searchLimits.Nodes = e.strength.capNodes(searchLimits.Nodes, Evaluate(pos))
	}

	e.tt.NewSearch()

	var bestMove board.Move
	var bestScore int
	var prevScore int
	d := 0

	move, score := e.searcher.IterativeDeepening(pos, maxDepth, searchLimits, func(depth, sc int, nodes uint64, pv []board.Move) {
		d = depth
		prevScore = bestScore
		bestScore = sc
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    sc,
				Nodes:    nodes,
				Time:     time.Since(startTime),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}
		if depth >= 9 && sc < prevScore-50 {
			tm.ExtendSoft()
		}
		if !tm.HaveTimeForNextIteration(time.Since(startTime)) {
			e.searcher.Stop()
		}
	})
	bestMove = move
	_ = score
	_ = d

	if e.strength != nil {
		candidates := []SearchResult{{Move: bestMove, Score: bestScore, PV: e.searcher.GetPV()}}
		return e.strength.pickMove(pos, candidates)
	}

	return bestMove
}

// SearchMultiPV finds multiple best moves (principal variations) for analysis.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits) []SearchResult {
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	if e.strength != nil && e.strength.maxDepth() < maxDepth {
		maxDepth = e.strength.maxDepth()
	}

	numPV := limits.MultiPV
	if numPV < 1 {
		numPV = 1
	}

	startTime := time.Now()
	searchLimits := SearchBudget{MateIn: limits.MateIn, Nodes: limits.Nodes}
	if limits.MoveTime > 0 {
		searchLimits.Deadline = startTime.Add(limits.MoveTime)
	}

	e.tt.NewSearch()

	return e.searchMultiPV(pos, maxDepth, searchLimits, numPV)
}

// searchMultiPV finds multiple best root lines by successively excluding
// already-found moves and re-searching.
func (e *Engine) searchMultiPV(pos *board.Position, maxDepth int, limits SearchBudget, numPV int) []SearchResult {
	results := make([]SearchResult, 0, numPV)
	excluded := make([]board.Move, 0, numPV)

	for i := 0; i < numPV; i++ {
		e.searcher.SetExcludedMoves(excluded)
		move, score := e.searcher.IterativeDeepening(pos, maxDepth, limits, nil)
		if move == board.NoMove {
			break
		}
		results = append(results, SearchResult{Move: move, Score: score, PV: e.searcher.GetPV(), Depth: maxDepth})
		excluded = append(excluded, move)
	}
	e.searcher.SetExcludedMoves(nil)

	for i := 0; i < len(results)-1; i++ {
		best := i
		for j := i + 1; j < len(results); j++ {
			if results[j].Score > results[best].Score {
				best = j
			}
		}
		if best != i {
			results[i], results[best] = results[best], results[i]
		}
	}

	return results
}

func (e *Engine) pickMove(pos *board.Position, results []SearchResult) board.Move {
	if e.strength != nil {
		return e.strength.pickMove(pos, results)
	}
	if len(results) == 0 {
		return board.NoMove
	}
	return results[0].Move
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the transposition table and move-ordering state.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ClearOrderer()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
