package engine

import "github.com/arcbit/chesscore/internal/board"

// Bound indicates which side of the true score a TTEntry's stored score
// bounds (spec.md §4.9).
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

// TTEntry is a transposition-table slot: (hash, depth, score, move, bound,
// valid) per spec.md §3.
type TTEntry struct {
	hash  uint64
	Move  board.Move
	Score int16
	Depth int8
	Bound Bound
	valid bool
	age   uint8
}

// TranspositionTable is a fixed-size, hash-indexed, depth-preferred-
// replacement cache of search results (spec.md §4.9), grounded on the
// teacher's TranspositionTable (hailam-chessplay's internal/engine/
// transposition.go) with the schema adapted to the spec's canonical
// (hash, depth, score, move, bound, valid) layout.
type TranspositionTable struct {
	entries    []TTEntry
	mask       uint64
	age        uint8
	entryCount int
}

// ttEntrySize approximates one slot's footprint for the MB→slot-count
// conversion (spec.md §4.9: "slot count = size / sizeof(entry)").
const ttEntrySize = 16

// NewTranspositionTable allocates a table sized sizeMB megabytes, rounding
// the slot count down to a power of two for mask-based indexing.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / ttEntrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// NewSearch bumps the generation counter; used for hashfull sampling only,
// replacement itself is purely depth-preferred (spec.md §4.9).
func (tt *TranspositionTable) NewSearch() { tt.age++ }

// Clear resets every slot.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.entryCount = 0
}

// Store inserts into the slot if empty or if depth is at least the
// occupant's depth (spec.md §4.9 depth-preferred replacement). A mate
// score is shifted by ply via AdjustScoreToTT before being written; Probe
// shifts it back by the probing ply, so a probe from the storing ply gets
// the stored score unchanged and a probe from another ply (reached by
// transposition) gets it moved by the difference in ply.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, bound Bound, move board.Move, ply int) {
	idx := hash & tt.mask
	e := &tt.entries[idx]
	if !e.valid {
		tt.entryCount++
	} else if depth < int(e.Depth) {
		return
	}
	e.hash = hash
	e.Move = move
	e.Score = int16(AdjustScoreToTT(score, ply))
	e.Depth = int8(depth)
	e.Bound = bound
	e.valid = true
	e.age = tt.age
}

// Probe implements spec.md §4.9's exact 3-step algorithm: a hash mismatch
// or shallower entry yields INVALID (but the stored move is still returned
// as a hash-ordering hint when present), otherwise the bound is checked
// against (alpha, beta). A stored mate score is shifted back by ply via
// AdjustScoreFromTT before any comparison or return, the inverse of the
// shift Store applies.
func (tt *TranspositionTable) Probe(hash uint64, depth, alpha, beta, ply int) (value int, move board.Move) {
	e := tt.entries[hash&tt.mask]
	if !e.valid || e.hash != hash {
		return ScoreInvalid, board.InvalidMove
	}
	move = e.Move
	if int(e.Depth) < depth {
		return ScoreInvalid, move
	}
	score := AdjustScoreFromTT(int(e.Score), ply)
	switch {
	case (e.Bound == BoundLower || e.Bound == BoundExact) && beta <= score:
		return beta, move
	case (e.Bound == BoundUpper || e.Bound == BoundExact) && score <= alpha:
		return alpha, board.InvalidMove
	case e.Bound == BoundExact:
		return score, move
	default:
		return ScoreInvalid, move
	}
}

// HashFull samples the first 1000 slots and reports per-mille occupancy
// from the current generation, the UCI "info hashfull" metric.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if uint64(sample) > uint64(len(tt.entries)) {
		sample = len(tt.entries)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].valid && tt.entries[i].age == tt.age {
			used++
		}
	}
	return used * 1000 / sample
}

// AdjustScoreFromTT converts a mate score stored relative to the TT node
// back into a score relative to the root, grounded on the teacher's
// AdjustScoreFromTT (hailam-chessplay's internal/engine/transposition.go).
func AdjustScoreFromTT(score, ply int) int {
	switch {
	case score >= MinMate:
		return score - ply
	case score <= -MinMate:
		return score + ply
	default:
		return score
	}
}

// AdjustScoreToTT converts a root-relative mate score into one relative to
// the node being stored, the inverse of AdjustScoreFromTT.
func AdjustScoreToTT(score, ply int) int {
	switch {
	case score >= MinMate:
		return score + ply
	case score <= -MinMate:
		return score - ply
	default:
		return score
	}
}
