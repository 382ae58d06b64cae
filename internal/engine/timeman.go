package engine

import (
	"time"

	"github.com/arcbit/chesscore/internal/board"
)

// UCILimits carries the search-bounding parameters parsed from a UCI "go"
// command (spec.md §6).
type UCILimits struct {
	Time     [2]time.Duration // wtime, btime
	MoveTime time.Duration
	Depth    int
	Infinite bool
	Ponder   bool
}

// TimeManager tracks the wall-clock budget for one search, grounded on the
// teacher's TimeManager (hailam-chessplay's internal/engine/timeman.go)
// but implementing spec.md §4.11's plain "movetime, else clock*0.025, else
// unbounded" rule in place of the teacher's moves-to-go/stability
// heuristics.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
	bounded     bool
}

// NewTimeManager returns an unstarted TimeManager.
func NewTimeManager() *TimeManager { return &TimeManager{} }

// allocationFraction is the spec's fixed per-move share of the remaining
// clock (spec.md §4.11).
const allocationFraction = 0.025

// Init starts the clock and computes the optimum/maximum budget for the
// side to move's remaining time (spec.md §4.11 Time budget).
func (tm *TimeManager) Init(limits UCILimits, us board.Color) {
	tm.startTime = time.Now()

	switch {
	case limits.MoveTime > 0:
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		tm.bounded = true
	case limits.Time[us] > 0:
		budget := time.Duration(float64(limits.Time[us]) * allocationFraction)
		tm.optimumTime = budget
		tm.maximumTime = budget
		tm.bounded = true
	default:
		tm.optimumTime = 0
		tm.maximumTime = 0
		tm.bounded = false
	}
}

// Elapsed returns the time elapsed since the search started.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.startTime) }

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimumTime }

// MaximumTime returns the maximum time allowed for this move.
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximumTime }

// ShouldStop reports whether the wall-clock budget has been exceeded; an
// unbounded manager (no movetime or clock given) never stops on time.
func (tm *TimeManager) ShouldStop() bool {
	if !tm.bounded {
		return false
	}
	return tm.Elapsed() >= tm.maximumTime
}
