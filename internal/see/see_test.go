package see

import (
	"testing"

	"github.com/arcbit/chesscore/internal/board"
)

func TestEvaluateWinningPawnCapture(t *testing.T) {
	// White pawn takes undefended black knight: clean +300.
	pos, err := board.FromFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := board.ParseLongAlgebraic("e4d5", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	if got := Evaluate(pos, m); got != board.PieceValue[board.Knight] {
		t.Errorf("Evaluate = %d, want %d", got, board.PieceValue[board.Knight])
	}
}

func TestEvaluateLosingRookTakesDefendedPawn(t *testing.T) {
	// White rook takes a pawn defended by a black knight: rook for pawn, net loss.
	pos, err := board.FromFEN("4k3/8/5n2/3p4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := board.ParseLongAlgebraic("d1d5", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	got := Evaluate(pos, m)
	want := board.PieceValue[board.Pawn] - board.PieceValue[board.Rook]
	if got != want {
		t.Errorf("Evaluate = %d, want %d", got, want)
	}
}

func TestEvaluateNonCaptureIsZero(t *testing.T) {
	pos := board.NewStartPosition()
	m, err := board.ParseLongAlgebraic("e2e4", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	if got := Evaluate(pos, m); got != 0 {
		t.Errorf("Evaluate(quiet move) = %d, want 0", got)
	}
}

func TestEvaluateWorkedExampleKnightTakesQueen(t *testing.T) {
	// spec.md worked example E: SEE(Nf3xg5) = +900, the queen undefended.
	pos, err := board.FromFEN("rnb1kbnr/pppp1ppp/8/4p1q1/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := board.ParseLongAlgebraic("f3g5", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	if got := Evaluate(pos, m); got != board.PieceValue[board.Queen] {
		t.Errorf("Evaluate = %d, want %d", got, board.PieceValue[board.Queen])
	}
}

func TestEvaluateMultiRecaptureChain(t *testing.T) {
	// White rook takes a pawn on d5, defended by both a knight (f6) and a
	// bishop (b7); a white knight (b4) backs up the square. The gain array
	// built over the full four-capture sequence is
	// [pawn, pawn-rook, pawn-rook+knight, pawn-rook+knight-knight], and
	// spec.md §4.6's rule (max of the odd-indexed entries only, since the
	// loop ran out of white attackers, so the final gain is not added) selects
	// index 1: a clean rook-for-pawn loss, unimproved by the later trades.
	pos, err := board.FromFEN("4k3/1b6/5n2/3p4/1N6/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := board.ParseLongAlgebraic("d1d5", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	want := board.PieceValue[board.Pawn] - board.PieceValue[board.Rook]
	if got := Evaluate(pos, m); got != want {
		t.Errorf("Evaluate = %d, want %d", got, want)
	}
}

func TestEvaluateEqualTradeIsZero(t *testing.T) {
	// Pawn takes pawn, recaptured by pawn: net zero.
	pos, err := board.FromFEN("4k3/8/2p5/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := board.ParseLongAlgebraic("e4d5", pos)
	if err != nil {
		t.Fatalf("ParseLongAlgebraic: %v", err)
	}
	if got := Evaluate(pos, m); got != 0 {
		t.Errorf("Evaluate = %d, want 0", got)
	}
}
