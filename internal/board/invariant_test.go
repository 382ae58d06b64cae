package board

import "testing"

// TestHashMatchesRecompute walks every reachable position to depth 3 from
// the starting position and checks Position.Hash against a from-scratch
// recomputation after every move (spec.md §8 invariant 2). The null move
// is covered separately by TestNullMovePreservesHashInvariant.
func TestHashMatchesRecompute(t *testing.T) {
	var walk func(p *Position, depth int)
	walk = func(p *Position, depth int) {
		if p.Hash != ZobristOf(p) {
			t.Fatalf("hash mismatch at depth %d: got %016x, want %016x", depth, p.Hash, ZobristOf(p))
		}
		if depth == 0 {
			return
		}
		var ml MoveList
		p.GeneratePseudoLegal(&ml, false)
		for i := 0; i < ml.Len(); i++ {
			child := p.Copy()
			if !child.MakeMove(ml.Get(i)) {
				continue
			}
			walk(&child, depth-1)
		}
	}
	walk(NewStartPosition(), 3)
}

func TestNullMovePreservesHashInvariant(t *testing.T) {
	pos := NewStartPosition()
	child := pos.Copy()
	if !child.MakeMove(NullMove) {
		t.Fatal("null move reported illegal")
	}
	if child.ToMove != Black {
		t.Errorf("null move did not flip side to move")
	}
	if child.Hash != ZobristOf(&child) {
		t.Errorf("hash mismatch after null move: got %016x, want %016x", child.Hash, ZobristOf(&child))
	}
}

// TestPieceOnAgreesWithBitboards checks that PieceOn and the per-type
// bitboards never disagree across a short move sequence.
func TestPieceOnAgreesWithBitboards(t *testing.T) {
	check := func(p *Position) {
		for sq := A1; sq <= H8; sq++ {
			piece := p.PieceOn[sq]
			for c := White; c <= Black; c++ {
				for pt := Pawn; pt <= King; pt++ {
					set := p.Pieces[c][pt].IsSet(sq)
					shouldBeSet := piece == NewPiece(pt, c)
					if set != shouldBeSet {
						t.Fatalf("sq=%v piece=%v: bitboard[%v][%v] set=%v", sq, piece, c, pt, set)
					}
				}
			}
		}
	}

	pos := NewStartPosition()
	check(pos)
	for _, lan := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		m, err := ParseLongAlgebraic(lan, pos)
		if err != nil {
			t.Fatalf("ParseLongAlgebraic(%q): %v", lan, err)
		}
		if !pos.MakeMove(m) {
			t.Fatalf("MakeMove(%q) reported illegal", lan)
		}
		check(pos)
	}
}

// TestCastlingRequiresEmptyAndUnattackedSquares covers scenario D: castling
// rights present but blocked by an attacked transit square must not be
// offered (spec.md §4.5 edge cases).
func TestCastlingRequiresEmptyAndUnattackedSquares(t *testing.T) {
	// Black rook on f8 controls f1, so White may not castle kingside.
	pos, err := FromFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	var ml MoveList
	pos.GeneratePseudoLegal(&ml, false)
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).IsKingsideCastle() {
			t.Errorf("castle offered through attacked f1 square")
		}
	}
}

// TestEnPassantCaptureScenario covers scenario D's en-passant half: a pawn
// double push sets EPTarget, and the adjacent enemy pawn can capture onto
// it, removing the pusher rather than the target square's own occupant.
func TestEnPassantCaptureScenario(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/4p3/8/3P4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := ParseLongAlgebraic("d2d4", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	if !pos.MakeMove(m) {
		t.Fatal("d2d4 reported illegal")
	}
	if pos.EPTarget != D3 {
		t.Fatalf("EPTarget = %v, want d3", pos.EPTarget)
	}

	m2, err := ParseLongAlgebraic("e4d3", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic(e4d3): %v", err)
	}
	if !m2.IsEnPassant() || !m2.IsCapture() {
		t.Fatalf("e4d3 not recognized as en passant: %v", m2)
	}
	if !pos.MakeMove(m2) {
		t.Fatal("e4d3 reported illegal")
	}
	if pos.PieceOn[D4] != NoPiece {
		t.Errorf("captured pawn still present on d4")
	}
	if pos.PieceOn[D3] != BlackPawn {
		t.Errorf("capturing pawn missing from d3")
	}
}

// TestPinnedPiecesDetectsRookPin covers scenario F: a rook pinned against
// its own king by an enemy queen on the same file.
func TestPinnedPiecesDetectsRookPin(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/4q3/8/4R3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	pinned := pos.PinnedPieces(White)
	if !pinned.IsSet(E2) {
		t.Errorf("rook on e2 not detected as pinned: %v", pinned)
	}
}

// TestFlipPreservesHashConsistency checks that Flip produces a position
// whose incremental hash still agrees with a from-scratch recomputation —
// the precondition for the evaluation-symmetry test in the engine package.
func TestFlipPreservesHashConsistency(t *testing.T) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	flipped := pos.Flip()
	if flipped.Hash != ZobristOf(&flipped) {
		t.Errorf("flipped hash mismatch: got %016x, want %016x", flipped.Hash, ZobristOf(&flipped))
	}
	twice := flipped.Flip()
	if twice.FEN() != pos.FEN() {
		t.Errorf("double flip did not round-trip: got %q, want %q", twice.FEN(), pos.FEN())
	}
}
