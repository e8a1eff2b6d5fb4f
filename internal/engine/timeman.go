package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// UCILimits contains UCI time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// TimeManager allocates a soft and a hard time limit for one search and
// tracks the adjustments that can enlarge the soft limit mid-search.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

const safetyMargin = 100 * time.Millisecond

// Init allocates soft/hard limits for a move. ply is the current game ply
// (half-move number); it is not used: when the host does not supply
// movestogo, the moves-remaining estimate is always 20.
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 || limits.Depth > 0 || limits.Nodes > 0 || limits.Infinite {
		if limits.MoveTime > 0 {
			tm.optimumTime = limits.MoveTime
			tm.maximumTime = limits.MoveTime
			return
		}
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeRemaining := limits.Time[us]
	inc := limits.Inc[us]

	movesRemaining := limits.MovesToGo
	if movesRemaining == 0 {
		movesRemaining = 20
	}

	ms := (timeRemaining + time.Duration(movesRemaining)*inc) / time.Duration(movesRemaining)
	soft := ms
	hard := ms * 536 / 128

	if hard > timeRemaining {
		movesRemaining = 4
		ms = (timeRemaining + time.Duration(movesRemaining)*inc) / time.Duration(movesRemaining)
		soft = ms
		hard = timeRemaining - safetyMargin
		if hard < 0 {
			hard = 0
		}
	}

	if soft < 10*time.Millisecond {
		soft = 10 * time.Millisecond
	}
	if hard < soft {
		hard = soft
	}

	tm.optimumTime = soft
	tm.maximumTime = hard
}

// Maximum returns the hard deadline duration for this move.
func (tm *TimeManager) Maximum() time.Duration {
	return tm.maximumTime
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the current soft limit.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard limit.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true once the hard limit has been reached.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true once the soft limit has been reached.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// ExtendSoft enlarges the soft limit by 50%, bounded by the hard limit.
// Called when the score has dropped significantly from the previous
// iteration at or past iteration 9.
func (tm *TimeManager) ExtendSoft() {
	extended := tm.optimumTime * 3 / 2
	if extended > tm.maximumTime {
		extended = tm.maximumTime
	}
	tm.optimumTime = extended
}

// HaveTimeForNextIteration reports whether there is enough of the soft
// budget left to justify starting another iteration: elapsed/soft < 70/128.
func (tm *TimeManager) HaveTimeForNextIteration(elapsed time.Duration) bool {
	if tm.optimumTime <= 0 {
		return true
	}
	return elapsed*128 < tm.optimumTime*70
}
