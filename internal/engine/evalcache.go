package engine

// evalCacheEntry is a static-evaluation memo slot: (hash, score, bound,
// valid) per spec.md §3 — the same shape as TTEntry minus depth and move.
type evalCacheEntry struct {
	hash  uint64
	Score int16
	Bound Bound
	valid bool
}

// EvalCache memoizes static evaluation for quiescence stand-pat, using the
// same hash-mod-size indexing as the transposition table but with
// write-once insertion (spec.md §4.10).
type EvalCache struct {
	entries []evalCacheEntry
	mask    uint64
}

const evalCacheEntrySize = 16

// NewEvalCache allocates an evaluation cache sized sizeMB megabytes.
func NewEvalCache(sizeMB int) *EvalCache {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / evalCacheEntrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &EvalCache{
		entries: make([]evalCacheEntry, numEntries),
		mask:    numEntries - 1,
	}
}

// Clear resets every slot.
func (c *EvalCache) Clear() {
	for i := range c.entries {
		c.entries[i] = evalCacheEntry{}
	}
}

// Store inserts hash's evaluation if the slot is not already occupied
// (spec.md §4.10: "Insert is write-once per slot").
func (c *EvalCache) Store(hash uint64, score int, bound Bound) {
	e := &c.entries[hash&c.mask]
	if e.valid {
		return
	}
	e.hash = hash
	e.Score = int16(score)
	e.Bound = bound
	e.valid = true
}

// Probe returns the cached score if the occupant matches hash and its
// bound admits the standard cutoff against (alpha, beta); otherwise
// ScoreInvalid.
func (c *EvalCache) Probe(hash uint64, alpha, beta int) int {
	e := c.entries[hash&c.mask]
	if !e.valid || e.hash != hash {
		return ScoreInvalid
	}
	score := int(e.Score)
	switch {
	case (e.Bound == BoundLower || e.Bound == BoundExact) && beta <= score:
		return beta
	case (e.Bound == BoundUpper || e.Bound == BoundExact) && score <= alpha:
		return alpha
	case e.Bound == BoundExact:
		return score
	default:
		return ScoreInvalid
	}
}
