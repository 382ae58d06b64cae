package engine

import (
	"github.com/arcbit/chesscore/internal/board"
	"github.com/arcbit/chesscore/internal/see"
)

// Quiescence captures are ordered by scoreQuiescence's MVV-LVA rule,
// value(victim) - value(attacker), grounded on the teacher's mvvLva table
// (hailam-chessplay's internal/engine/ordering.go) reduced to that single
// subtraction.

// KillerTable holds, per ply, the two most recent quiet moves that caused a
// beta cutoff (spec.md §4.11 step 11f), grounded on the teacher's
// MoveOrderer.killers.
type KillerTable struct {
	killers [MaxPly][2]board.Move
}

// Clear resets every ply's killers for a new search.
func (kt *KillerTable) Clear() {
	for i := range kt.killers {
		kt.killers[i][0] = board.InvalidMove
		kt.killers[i][1] = board.InvalidMove
	}
}

// Update shifts m into ply's killer slots (first->second, new->first),
// skipping captures per spec.md §4.11 step 11f.
func (kt *KillerTable) Update(m board.Move, ply int) {
	if ply < 0 || ply >= MaxPly || m.IsCapture() {
		return
	}
	if kt.killers[ply][0] == m {
		return
	}
	kt.killers[ply][1] = kt.killers[ply][0]
	kt.killers[ply][0] = m
}

func (kt *KillerTable) at(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= MaxPly {
		return board.InvalidMove, board.InvalidMove
	}
	return kt.killers[ply][0], kt.killers[ply][1]
}

// Selector is the staged-lazy move iterator of spec.md §4.7: it yields the
// hash-move hint first without generating, then lazily selects the
// highest-scoring remaining pseudo-legal move on each Next() call
// (select-max-by-swap), grounded on the teacher's MoveOrderer.PickMove
// (hailam-chessplay's internal/engine/ordering.go) but scored per the
// spec's simpler rule set.
type Selector struct {
	pos        *board.Position
	ml         board.MoveList
	scores     [board.MaxMoves]int
	hashMove   board.Move
	killers    [2]board.Move
	quiescence bool

	stage     int // 0: hash-move stage, 1: generated-and-scored stage
	cursor    int
	hashSeen  bool
	generated bool
}

// NewSelector starts a main-search selector seeded with the TT hash-move
// hint (may be InvalidMove) and ply's killer moves.
func NewSelector(pos *board.Position, hashMove board.Move, kt *KillerTable, ply int) *Selector {
	s := &Selector{pos: pos, hashMove: hashMove}
	s.killers[0], s.killers[1] = kt.at(ply)
	if hashMove.IsInvalid() {
		s.stage = 1
	}
	return s
}

// NewQuiescenceSelector starts a selector over captures and promotions only,
// scored by MVV-LVA, with no hash-move stage (spec.md §4.7, §4.11
// Quiescence).
func NewQuiescenceSelector(pos *board.Position) *Selector {
	s := &Selector{pos: pos, quiescence: true, stage: 1, hashMove: board.InvalidMove}
	return s
}

// HasNext reports whether Next would yield a move; gated at the end check
// first before advancing stages, avoiding the bound-check-after-read bug
// (spec.md §9 REDESIGN FLAGS).
func (s *Selector) HasNext() bool {
	if s.end() {
		return false
	}
	return true
}

func (s *Selector) end() bool {
	if s.stage == 0 {
		return false
	}
	s.ensureGenerated()
	return s.cursor >= s.ml.Len()
}

// Next yields the next move in descending score order, or (InvalidMove,
// false) once exhausted.
func (s *Selector) Next() (board.Move, bool) {
	if s.end() {
		return board.InvalidMove, false
	}
	if s.stage == 0 {
		s.stage = 1
		s.hashSeen = true
		return s.hashMove, true
	}

	best := s.cursor
	for j := s.cursor + 1; j < s.ml.Len(); j++ {
		if s.scores[j] > s.scores[best] {
			best = j
		}
	}
	if best != s.cursor {
		s.ml.Swap(s.cursor, best)
		s.scores[s.cursor], s.scores[best] = s.scores[best], s.scores[s.cursor]
	}
	m := s.ml.Get(s.cursor)
	s.cursor++
	return m, true
}

// swapAway removes the move at index i from further consideration by
// swapping it to the end of the still-unconsidered range and shrinking it;
// used only to drop a re-encountered hash move from stage B.
func (s *Selector) swapAway(i int) {
	last := s.ml.Len() - 1
	s.ml.Swap(i, last)
	s.scores[i], s.scores[last] = s.scores[last], s.scores[i]
	s.ml.Count--
}

func (s *Selector) ensureGenerated() {
	if s.generated {
		return
	}
	s.generated = true
	s.pos.GeneratePseudoLegal(&s.ml, s.quiescence)
	for i := 0; i < s.ml.Len(); i++ {
		s.scores[i] = s.score(s.ml.Get(i))
	}
	if s.hashSeen {
		for i := 0; i < s.ml.Len(); i++ {
			if s.ml.Get(i) == s.hashMove {
				s.swapAway(i)
				break
			}
		}
	}
}

func (s *Selector) score(m board.Move) int {
	if s.quiescence {
		return s.scoreQuiescence(m)
	}

	if m.IsPromotion() {
		return board.PieceValue[m.Promotion()] + 100000
	}
	if m.IsCapture() {
		return see.Evaluate(s.pos, m) + 50000
	}
	if m == s.killers[0] {
		return ScoreKiller + 1
	}
	if m == s.killers[1] {
		return ScoreKiller
	}
	return pstDelta(s.pos, m)
}

func (s *Selector) scoreQuiescence(m board.Move) int {
	if m.IsPromotion() {
		return board.PieceValue[m.Promotion()] + 100000
	}
	attacker := s.pos.PieceAt(m.From())
	var victimValue int
	if m.IsEnPassant() {
		victimValue = board.PieceValue[board.Pawn]
	} else if victim := s.pos.PieceAt(m.To()); victim != board.NoPiece {
		victimValue = victim.Value()
	}
	return victimValue - attacker.Value()
}

// pstDelta scores a quiet move by its piece-square-table improvement,
// spec.md §4.7's fallback ordering rule for non-captures, non-promotions,
// non-killers.
func pstDelta(pos *board.Position, m board.Move) int {
	pt := m.Piece()
	us := pos.ToMove
	phase := pos.Phase()
	toScore := pst[pt][board.RelativeSquare(us, m.To())].Taper(phase)
	fromScore := pst[pt][board.RelativeSquare(us, m.From())].Taper(phase)
	return toScore - fromScore
}
