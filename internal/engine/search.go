package engine

import (
	"sync/atomic"
	"time"

	"github.com/arcbit/chesscore/internal/board"
)

// InfoSink receives search progress callbacks, the capability-interface
// substitute for the teacher's direct stdout writes so the UCI driver (or
// a test) can consume them without coupling the engine to any particular
// output format.
type InfoSink interface {
	Iteration(depth int, score int, mate bool, pv []board.Move, nodes uint64, elapsed time.Duration)
	CurrMove(m board.Move, number int)
	Nodes(nodes uint64, nps uint64)
	HashFull(permille int)
	DebugString(s string)
}

// NopInfoSink discards every callback; the zero value is ready to use.
type NopInfoSink struct{}

func (NopInfoSink) Iteration(int, int, bool, []board.Move, uint64, time.Duration) {}
func (NopInfoSink) CurrMove(board.Move, int)                                     {}
func (NopInfoSink) Nodes(uint64, uint64)                                         {}
func (NopInfoSink) HashFull(int)                                                 {}
func (NopInfoSink) DebugString(string)                                           {}

// Search owns one iterative-deepening run: position copies, TT, eval
// cache, killer table, and the stop flag (spec.md §5 concurrency model).
type Search struct {
	TT        *TranspositionTable
	EvalCache *EvalCache
	Eval      *Evaluator

	killers KillerTable
	history [MaxPly]uint64

	stop atomic.Bool
	tm   *TimeManager
	sink InfoSink

	nodes         uint64
	lastNodeCheck uint64

	maxDepth int
	debug    bool
}

// NewSearch builds a Search with a freshly allocated transposition table of
// hashMB megabytes and an evaluation cache of a quarter of that (spec.md
// §4.9/§4.10).
func NewSearch(hashMB int) *Search {
	return &Search{
		TT:        NewTranspositionTable(hashMB),
		EvalCache: NewEvalCache(hashMB / 4),
		Eval:      NewEvaluator(),
		sink:      NopInfoSink{},
	}
}

// SetInfoSink installs the callback receiver for this search.
func (s *Search) SetInfoSink(sink InfoSink) {
	if sink == nil {
		sink = NopInfoSink{}
	}
	s.sink = sink
}

// SetDebug toggles "info string" debug-stat emission.
func (s *Search) SetDebug(on bool) { s.debug = on }

// Stop requests cancellation; safe to call from any goroutine.
func (s *Search) Stop() { s.stop.Store(true) }

func (s *Search) shouldStop() bool {
	if s.stop.Load() {
		return true
	}
	if s.tm != nil && s.tm.ShouldStop() {
		return true
	}
	return false
}

// infoTick is the info-thread sampling interval (spec.md §5).
const infoTick = 10 * time.Millisecond

// runInfoThread samples node counters until done is closed (Start closes it
// on return, including after a stop), the second of the two-goroutine
// concurrency model (spec.md §5).
func (s *Search) runInfoThread(done <-chan struct{}) {
	ticker := time.NewTicker(infoTick)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			nodes := atomic.LoadUint64(&s.nodes)
			elapsed := s.tm.Elapsed()
			nps := uint64(0)
			if elapsed > 0 {
				nps = uint64(float64(nodes) / elapsed.Seconds())
			}
			s.sink.Nodes(nodes, nps)
			s.sink.HashFull(s.TT.HashFull())
		}
	}
}

// Start runs iterative deepening from pos until a stop condition fires,
// returning the best move found (spec.md §4.11). pos is copied; the
// caller's position is never mutated.
func (s *Search) Start(pos board.Position, limits UCILimits) board.Move {
	s.stop.Store(false)
	s.nodes = 0
	s.killers.Clear()
	s.TT.NewSearch()

	s.tm = NewTimeManager()
	s.tm.Init(limits, pos.ToMove)
	s.maxDepth = limits.Depth
	if s.maxDepth <= 0 {
		s.maxDepth = MaxPly - 1
	}

	done := make(chan struct{})
	go s.runInfoThread(done)
	defer close(done)

	s.history[0] = pos.Hash

	var bestMove board.Move
	var pv []board.Move

	for depth := 1; depth <= s.maxDepth; depth++ {
		root := pos
		score := s.pvSearch(&root, -ScoreInf, ScoreInf, depth, 0, nil, true)

		if score == ScoreInvalid && depth > 1 {
			break
		}

		pvOut := collectPV(&root, depth, s)
		if len(pvOut) > 0 {
			bestMove = pvOut[0]
			pv = pvOut
		}

		mate := score >= MinMate || score <= -MinMate
		s.sink.Iteration(depth, score, mate, pv, atomic.LoadUint64(&s.nodes), s.tm.Elapsed())

		if mate {
			break
		}
		if s.shouldStop() {
			break
		}
	}

	return bestMove
}

// collectPV follows the TT's stored best moves from the root to
// reconstruct the principal variation for reporting, since pvSearch does
// not fill its pvOut parameter; it stops at the first entry without a
// move, an illegal move, or a repeated position.
func collectPV(pos *board.Position, maxLen int, s *Search) []board.Move {
	var out []board.Move
	cur := *pos
	seen := make(map[uint64]bool)
	for i := 0; i < maxLen; i++ {
		_, move := s.TT.Probe(cur.Hash, 0, -ScoreInf, ScoreInf, i)
		if move.IsInvalid() || seen[cur.Hash] {
			break
		}
		seen[cur.Hash] = true
		child := cur.Copy()
		if !child.MakeMove(move) {
			break
		}
		out = append(out, move)
		cur = child
	}
	return out
}

// pvSearch is the principal-variation alpha-beta search of spec.md §4.11.
// pvOut is unused for anything but signature compatibility with the
// spec's pv_out parameter; the engine reconstructs the reported PV from
// the TT after each iteration (collectPV) since that's simpler than
// threading a mutable slice through recursive calls without allocating.
func (s *Search) pvSearch(pos *board.Position, alpha, beta, depthLeft, ply int, pvOut []board.Move, allowNull bool) int {
	if s.shouldStop() {
		return ScoreInvalid
	}

	s.nodes++
	if s.nodes-s.lastNodeCheck >= 30000 {
		s.lastNodeCheck = s.nodes
		elapsed := s.tm.Elapsed()
		nps := uint64(0)
		if elapsed > 0 {
			nps = uint64(float64(s.nodes) / elapsed.Seconds())
		}
		s.sink.Nodes(s.nodes, nps)
		s.sink.HashFull(s.TT.HashFull())
	}

	if ply < MaxPly {
		s.history[ply] = pos.Hash
	}

	alphaOrig := alpha
	isPV := beta-alpha > 1

	ttValue, ttMove := s.TT.Probe(pos.Hash, depthLeft, alpha, beta, ply)
	if ttValue != ScoreInvalid && !isPV {
		return ttValue
	}

	if depthLeft <= 0 {
		return s.quiescence(pos, alpha, beta, ply)
	}

	inCheck := pos.IsInCheck(pos.ToMove)
	eval := s.evaluate(pos)

	if !isPV && depthLeft <= 3 && !inCheck &&
		alpha > -MinMate && alpha < MinMate && beta > -MinMate && beta < MinMate &&
		eval-120*depthLeft >= beta && pos.AllowNullMove() {
		return beta
	}

	if allowNull && depthLeft >= 4 && !inCheck && pos.AllowNullMove() {
		child := pos.Copy()
		child.MakeMove(board.NullMove)
		val := -s.pvSearch(&child, -beta, -beta+1, depthLeft-3, ply+1, nil, false)
		if val == -ScoreInvalid {
			return ScoreInvalid
		}
		if val >= beta {
			return beta
		}
	}

	if !inCheck && depthLeft <= 3 && !isPV {
		margin := 90*(depthLeft-1) + 18
		if eval+margin <= alpha {
			qAlpha := alpha - margin
			qBeta := qAlpha + 1
			val := s.quiescence(pos, qAlpha, qBeta, ply)
			if val <= qAlpha {
				depthLeft--
				if depthLeft == 0 {
					return alpha
				}
			}
		}
	}

	if inCheck {
		depthLeft++
	}

	sel := NewSelector(pos, ttMove, &s.killers, ply)

	legalCount := 0
	firstSearched := true
	var bestMove board.Move
	bestScore := -ScoreInf

	for {
		m, ok := sel.Next()
		if !ok {
			break
		}

		child := pos.Copy()
		if !child.MakeMove(m) {
			continue
		}
		legalCount++

		if ply >= 2 && repeats(s.history[:], ply, child.Hash) {
			if -ScoreDraw > bestScore {
				bestScore = ScoreDraw
				bestMove = m
			}
			continue
		}

		if ply == 0 {
			s.sink.CurrMove(m, legalCount)
		}

		var score int
		if firstSearched {
			score = -s.pvSearch(&child, -beta, -alpha, depthLeft-1, ply+1, nil, true)
			firstSearched = false
		} else {
			score = -s.pvSearch(&child, -(alpha + 1), -alpha, depthLeft-1, ply+1, nil, true)
			if score == -ScoreInvalid {
				return ScoreInvalid
			}
			if score > alpha && score < beta {
				score = -s.pvSearch(&child, -beta, -alpha, depthLeft-1, ply+1, nil, true)
			}
		}
		if score == -ScoreInvalid {
			return ScoreInvalid
		}

		if score >= MinMate {
			score--
		} else if score <= -MinMate {
			score++
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		if score >= beta {
			if m.IsQuiet() {
				s.killers.Update(m, ply)
			}
			s.TT.Store(pos.Hash, depthLeft, beta, BoundLower, m, ply)
			return beta
		}

		if score > alpha {
			alpha = score
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MaxMate
		}
		return ScoreDraw
	}

	if alpha == alphaOrig {
		s.TT.Store(pos.Hash, depthLeft, alpha, BoundUpper, board.InvalidMove, ply)
	} else {
		s.TT.Store(pos.Hash, depthLeft, alpha, BoundExact, bestMove, ply)
	}
	return alpha
}

// repeats reports whether hash equals any entry at stride 2 behind ply in
// the history array — draw-by-repetition detection (spec.md §4.11 step 11b).
func repeats(history []uint64, ply int, hash uint64) bool {
	for p := ply - 2; p >= 0; p -= 2 {
		if p >= len(history) {
			continue
		}
		if history[p] == hash {
			return true
		}
	}
	return false
}

// quiescence is the capture/promotion-only search that stabilizes leaf
// evaluation (spec.md §4.11 Quiescence).
func (s *Search) quiescence(pos *board.Position, alpha, beta, ply int) int {
	if s.shouldStop() {
		return ScoreInvalid
	}
	s.nodes++

	standPat := s.evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	sel := NewQuiescenceSelector(pos)
	for {
		m, ok := sel.Next()
		if !ok {
			break
		}

		if !m.IsPromotion() {
			var victimValue int
			if m.IsEnPassant() {
				victimValue = board.PieceValue[board.Pawn]
			} else if victim := pos.PieceAt(m.To()); victim != board.NoPiece {
				victimValue = victim.Value()
			}
			if standPat+victimValue+200 < alpha {
				continue
			}
		}

		child := pos.Copy()
		if !child.MakeMove(m) {
			continue
		}

		score := -s.quiescence(&child, -beta, -alpha, ply+1)
		if score == -ScoreInvalid {
			return ScoreInvalid
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// evaluate probes the evaluation cache before falling back to the static
// evaluator, inserting the result as EXACT on a miss (spec.md §4.11
// Quiescence stand-pat / §4.10).
func (s *Search) evaluate(pos *board.Position) int {
	if v := s.EvalCache.Probe(pos.Hash, -ScoreInf, ScoreInf); v != ScoreInvalid {
		return v
	}
	v := s.Eval.Evaluate(pos)
	s.EvalCache.Store(pos.Hash, v, BoundExact)
	return v
}
