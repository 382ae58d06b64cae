// Package engine implements static evaluation and the search that drives
// the UCI engine core: move ordering, transposition/evaluation caches, and
// iterative-deepening principal-variation search.
package engine

import "github.com/arcbit/chesscore/internal/board"

// Mobility weight tables per piece type, tapered (spec.md §4.8).
var mobilityWeight = [6]board.Score{
	board.Pawn:   {},
	board.Knight: {MG: 4, EG: 4},
	board.Bishop: {MG: 5, EG: 5},
	board.Rook:   {MG: 2, EG: 4},
	board.Queen:  {MG: 1, EG: 2},
	board.King:   {},
}

// Per-type, tapered 64-entry piece-square tables, indexed by
// RelativeSquare(color, sq) so the same table serves both colors
// (spec.md §4.8). Values are from White's perspective and written rank 8
// first, as the board is printed; taper mirrors them into square-index
// order (A1=0). Grounded on the teacher's pawn/knight/bishop/rook/queen/
// king PSTs.
var pst = [6][64]board.Score{
	board.Pawn:   taper(pawnMG[:], pawnEG[:]),
	board.Knight: taper(knightMG[:], knightMG[:]),
	board.Bishop: taper(bishopMG[:], bishopMG[:]),
	board.Rook:   taper(rookMG[:], rookMG[:]),
	board.Queen:  taper(queenMG[:], queenMG[:]),
	board.King:   taper(kingMG[:], kingEG[:]),
}

func taper(mg, eg []int) [64]board.Score {
	var t [64]board.Score
	for i := range t {
		t[i] = board.Score{MG: mg[i^56], EG: eg[i^56]}
	}
	return t
}

var pawnMG = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEG = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	40, 40, 40, 40, 40, 40, 40, 40,
	20, 20, 20, 20, 20, 20, 20, 20,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightMG = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopMG = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookMG = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenMG = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMG = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEG = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Pawn-structure penalties/bonuses, tapered (spec.md §4.8).
var (
	isolatedPawnPenalty = board.Score{MG: -20, EG: -25}
	doubledPawnPenalty  = board.Score{MG: -15, EG: -20}
	passedPawnBonus     = [8]board.Score{
		{}, {MG: 10, EG: 20}, {MG: 15, EG: 30}, {MG: 25, EG: 50},
		{MG: 40, EG: 80}, {MG: 70, EG: 130}, {MG: 110, EG: 200}, {},
	}
	rookOpenFileBonus     = board.Score{MG: 20, EG: 25}
	rookSemiOpenFileBonus = board.Score{MG: 10, EG: 15}

	pinPenalty = 10
	tempoBonus = 10
)

// attackerWeight is the per-piece-type king-zone danger weight (spec.md
// §4.8 king-attack accumulator), grounded on the teacher's attackerWeight.
var attackerWeight = [6]int{board.Pawn: 0, board.Knight: 20, board.Bishop: 20, board.Rook: 40, board.Queen: 80}

// kingDanger is the monotone 200-entry table the king-attack accumulator
// indexes into (spec.md §4.8): quadratic growth, capped, so a handful of
// attackers is mild but a mass attack is severe.
var kingDanger [200]int

func init() {
	acc := 0
	for i := range kingDanger {
		acc += i
		v := acc / 4
		if v > 2000 {
			v = 2000
		}
		kingDanger[i] = v
	}
}

// pawnShieldBonus/pawnShieldMissing/openFileNearKing/semiOpenFileNearKing
// are the flat king-shield terms layered on top of the accumulator table,
// grounded on the teacher's evaluateKingSafety shield loop.
const (
	pawnShieldBonus      = 10
	pawnShieldMissing    = -15
	openFileNearKing     = -20
	semiOpenFileNearKing = -10
)

// Evaluator computes the static evaluation used by search leaves and
// quiescence stand-pat.
type Evaluator struct{}

// NewEvaluator returns an Evaluator; stateless, safe to share.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// EvalBreakdown reports the per-term contribution to the final score, the
// form the "eval" UCI command prints (supplement recovered from
// original_source/'s evaluation.cpp).
type EvalBreakdown struct {
	Material   int
	PST        int
	Mobility   int
	PawnStruct int
	RookFiles  int
	KingSafety int
	Pins       int
	Tempo      int
	Total      int
}

// Evaluate returns the position's score in centipawns from the side-to-move
// perspective (spec.md §4.8).
func (e *Evaluator) Evaluate(pos *board.Position) int {
	b := e.accumulate(pos)
	phase := pos.Phase()
	return b.Material + b.Tempo +
		taperAll(phase,
			b.pstScore, b.mobilityScore, b.pawnScore, b.rookScore, b.kingScore, b.pinScore)
}

// Breakdown computes the same terms as Evaluate but returns each one
// separately for diagnostics.
func (e *Evaluator) Breakdown(pos *board.Position) EvalBreakdown {
	b := e.accumulate(pos)
	phase := pos.Phase()
	out := EvalBreakdown{
		Material:   b.Material,
		PST:        b.pstScore.Taper(phase),
		Mobility:   b.mobilityScore.Taper(phase),
		PawnStruct: b.pawnScore.Taper(phase),
		RookFiles:  b.rookScore.Taper(phase),
		KingSafety: b.kingScore.Taper(phase),
		Pins:       b.pinScore.Taper(phase),
		Tempo:      b.Tempo,
	}
	out.Total = out.Material + out.PST + out.Mobility + out.PawnStruct +
		out.RookFiles + out.KingSafety + out.Pins + out.Tempo
	return out
}

type accumulated struct {
	Material int
	Tempo    int

	pstScore      board.Score
	mobilityScore board.Score
	pawnScore     board.Score
	rookScore     board.Score
	kingScore     board.Score
	pinScore      board.Score
}

func taperAll(phase int, scores ...board.Score) int {
	var sum int
	for _, s := range scores {
		sum += s.Taper(phase)
	}
	return sum
}

func (e *Evaluator) accumulate(pos *board.Position) accumulated {
	us := pos.ToMove
	them := us.Other()

	var a accumulated
	a.Material = evalMaterial(pos, us) - evalMaterial(pos, them)

	pstUs := evalPST(pos, us)
	pstThem := evalPST(pos, them)
	a.pstScore = pstUs.Sub(pstThem)

	mobUs, mobThem := evalMobility(pos, us), evalMobility(pos, them)
	a.mobilityScore = mobUs.Sub(mobThem)

	pawnUs, pawnThem := evalPawnStructure(pos, us), evalPawnStructure(pos, them)
	a.pawnScore = pawnUs.Sub(pawnThem)

	rookUs, rookThem := evalRookFiles(pos, us), evalRookFiles(pos, them)
	a.rookScore = rookUs.Sub(rookThem)

	kingUs, kingThem := evalKingSafety(pos, us), evalKingSafety(pos, them)
	a.kingScore = kingUs.Sub(kingThem)

	pinnedUs := pos.PinnedPieces(us).PopCount()
	pinnedThem := pos.PinnedPieces(them).PopCount()
	a.pinScore = board.Score{MG: -pinPenalty * pinnedUs, EG: -pinPenalty * pinnedUs}.
		Add(board.Score{MG: pinPenalty * pinnedThem, EG: pinPenalty * pinnedThem})

	if pos.ToMove == us {
		a.Tempo = tempoBonus
	} else {
		a.Tempo = -tempoBonus
	}

	return a
}

func evalMaterial(pos *board.Position, c board.Color) int {
	total := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		total += pos.Material[c][pt] * board.PieceValue[pt]
	}
	return total
}

func evalPST(pos *board.Position, c board.Color) board.Score {
	var s board.Score
	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := pos.Pieces[c][pt]
		for bb != 0 {
			sq := bb.PopLSB()
			s = s.Add(pst[pt][board.RelativeSquare(c, sq)])
		}
	}
	return s
}

func evalMobility(pos *board.Position, c board.Color) board.Score {
	occupied := pos.OccupiedAll
	empty := ^occupied
	var s board.Score
	for pt := board.Knight; pt <= board.Queen; pt++ {
		bb := pos.Pieces[c][pt]
		for bb != 0 {
			sq := bb.PopLSB()
			n := (board.AttacksByType(pt, c, sq, occupied) & empty).PopCount()
			s = s.Add(mobilityWeight[pt].Mul(n))
		}
	}
	return s
}

func evalPawnStructure(pos *board.Position, c board.Color) board.Score {
	them := c.Other()
	pawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]
	var s board.Score

	for f := 0; f < 8; f++ {
		filePawns := pawns & board.FileMask[f]
		count := filePawns.PopCount()
		if count == 0 {
			continue
		}
		if count > 1 {
			s = s.Add(doubledPawnPenalty.Mul(count - 1))
		}

		adjacent := board.Empty
		if f > 0 {
			adjacent |= board.FileMask[f-1]
		}
		if f < 7 {
			adjacent |= board.FileMask[f+1]
		}
		if pawns&adjacent == 0 {
			s = s.Add(isolatedPawnPenalty.Mul(count))
		}
	}

	bb := pawns
	for bb != 0 {
		sq := bb.PopLSB()
		if isPassedPawn(sq, c, enemyPawns) {
			rank := sq.RelativeRank(c)
			s = s.Add(passedPawnBonus[rank])
		}
	}

	return s
}

// isPassedPawn reports that no enemy pawn on sq's file or an adjacent file
// stands on a rank ahead of sq from c's perspective (spec.md §4.8).
func isPassedPawn(sq board.Square, c board.Color, enemyPawns board.Bitboard) bool {
	f := sq.File()
	var files board.Bitboard
	files |= board.FileMask[f]
	if f > 0 {
		files |= board.FileMask[f-1]
	}
	if f < 7 {
		files |= board.FileMask[f+1]
	}

	var ahead board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < 8; r++ {
			ahead |= board.RankMask[r]
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			ahead |= board.RankMask[r]
		}
	}

	return enemyPawns&files&ahead == 0
}

func evalRookFiles(pos *board.Position, c board.Color) board.Score {
	them := c.Other()
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]
	var s board.Score

	rooks := pos.Pieces[c][board.Rook]
	for rooks != 0 {
		sq := rooks.PopLSB()
		f := sq.File()
		file := board.FileMask[f]
		switch {
		case ownPawns&file == 0 && enemyPawns&file == 0:
			s = s.Add(rookOpenFileBonus)
		case ownPawns&file == 0:
			s = s.Add(rookSemiOpenFileBonus)
		}
	}
	return s
}

// evalKingSafety returns the king-safety term for color c: a pawn-shield
// count over files adjacent to the king plus a king-attack accumulator
// (spec.md §4.8), grounded on the teacher's evaluateKingSafety.
func evalKingSafety(pos *board.Position, c board.Color) board.Score {
	kingSq := pos.Pieces[c][board.King].LSB()
	if kingSq == board.NoSquare {
		return board.Score{}
	}
	them := c.Other()
	occupied := pos.OccupiedAll

	kingZone := board.KingAttacks(kingSq) | board.SquareBB(kingSq)
	if c == board.White {
		kingZone |= kingZone.North()
	} else {
		kingZone |= kingZone.South()
	}

	weight := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		attackers := pos.Pieces[them][pt]
		for attackers != 0 {
			sq := attackers.PopLSB()
			atk := board.AttacksByType(pt, them, sq, occupied)
			n := (atk & kingZone).PopCount()
			if n == 0 {
				continue
			}
			weight += attackerWeight[pt] * n
		}
	}
	weight += 7 - board.Distance(pos.Pieces[them][board.King].LSB(), kingSq)
	if weight < 0 {
		weight = 0
	}
	if weight >= len(kingDanger) {
		weight = len(kingDanger) - 1
	}
	danger := kingDanger[weight]

	var s board.Score
	s.MG -= danger
	s.EG -= danger / 2

	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]
	shieldRank := 1
	if c == board.Black {
		shieldRank = 6
	}
	kingFile := kingSq.File()
	for f := kingFile - 1; f <= kingFile+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		filePawns := ownPawns & board.FileMask[f]
		enemyOnFile := enemyPawns & board.FileMask[f]
		shieldMask := board.FileMask[f] & board.RankMask[shieldRank]

		switch {
		case ownPawns&shieldMask != 0:
			s.MG += pawnShieldBonus
			s.EG += pawnShieldBonus
		case filePawns == 0:
			s.MG += pawnShieldMissing
			s.EG += pawnShieldMissing
		}

		switch {
		case filePawns == 0 && enemyOnFile == 0:
			s.MG += openFileNearKing
		case filePawns == 0:
			s.MG += semiOpenFileNearKing
		}
	}

	return s
}
