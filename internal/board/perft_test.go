package board

import "testing"

// TestPerftStartingPosition checks move generation against the standard
// starting-position perft oracle (spec.md §8 table, position A).
func TestPerftStartingPosition(t *testing.T) {
	pos := NewStartPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// depth 5 takes longer; enable for thorough verification:
		// {5, 4865609},
	}

	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftKiwipete exercises castling, en passant and promotions together
// (spec.md §8 table, position B).
// FEN: r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func TestPerftKiwipete(t *testing.T) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// {4, 4085603}, // enable for thorough verification
	}

	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftPositionC is the endgame-heavy perft oracle (spec.md §8 table,
// position C): FEN 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -.
func TestPerftPositionC(t *testing.T) {
	pos, err := FromFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		// {5, 674624}, // enable for thorough verification
	}

	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftDivideSumsToTotal checks that per-root-move subtree counts sum to
// the plain perft total, the standard move-generator-bug localization check.
func TestPerftDivideSumsToTotal(t *testing.T) {
	pos := NewStartPosition()
	const depth = 3

	divide := PerftDivide(pos, depth)
	var sum int64
	for _, n := range divide {
		sum += n
	}
	if want := Perft(pos, depth); sum != want {
		t.Errorf("divide sums to %d, want %d", sum, want)
	}
}
