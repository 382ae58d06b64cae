package epd

import (
	"testing"

	"github.com/arcbit/chesscore/internal/board"
)

func TestParseLineBasic(t *testing.T) {
	line := `r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - bm Ng5; id "test.1";`
	c, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if c.ID != "test.1" {
		t.Errorf("ID = %q, want %q", c.ID, "test.1")
	}
	if len(c.BM) != 1 || c.BM[0] != "Ng5" {
		t.Errorf("BM = %v, want [Ng5]", c.BM)
	}
	wantFEN := "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq -"
	if c.FEN != wantFEN {
		t.Errorf("FEN = %q, want %q", c.FEN, wantFEN)
	}
}

func TestParseLineRejectsTooFewFields(t *testing.T) {
	_, err := ParseLine("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w")
	if err == nil {
		t.Fatal("expected error for incomplete FEN prefix")
	}
}

func TestRunSuitePassesOnMatchingBestMove(t *testing.T) {
	cases := []Case{
		{FEN: "8/8/8/8/8/5k2/7R/5K2 w - -", ID: "mate.1", BM: []string{"h2h8"}},
	}
	results := RunSuite(cases, 1, func(pos board.Position) board.Move {
		m, _ := board.ParseLongAlgebraic("h2h8", &pos)
		return m
	})
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("expected a pass, got %+v", results)
	}
}

func TestRunSuiteFailsOnAvoidMove(t *testing.T) {
	cases := []Case{
		{FEN: "8/8/8/8/8/5k2/7R/5K2 w - -", ID: "mate.2", AM: []string{"h2a2"}},
	}
	results := RunSuite(cases, 1, func(pos board.Position) board.Move {
		m, _ := board.ParseLongAlgebraic("h2a2", &pos)
		return m
	})
	if len(results) != 1 || results[0].Passed {
		t.Fatalf("expected a fail for the avoided move, got %+v", results)
	}
}
