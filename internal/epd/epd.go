// Package epd parses and runs EPD test suites against the engine core
// (spec.md §6): four FEN fields followed by zero or more opcodes of the
// form "keyword operand;".
package epd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/arcbit/chesscore/internal/board"
)

// ParseError reports a malformed EPD line.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("epd parse error: %q: %s", e.Line, e.Reason)
}

// Case is one parsed EPD test position: the four-field FEN prefix plus
// its recognized opcodes (spec.md §6).
type Case struct {
	FEN string
	ID  string
	BM  []string // any of these SAN moves is a pass
	AM  []string // any of these SAN moves is a fail
}

// ParseFile reads and parses every non-blank line of an EPD file.
func ParseFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []Case
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, scanner.Err()
}

// ParseLine parses one EPD line (spec.md §6 grammar).
func ParseLine(line string) (Case, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Case{}, &ParseError{line, "fewer than 4 FEN fields"}
	}
	fen := strings.Join(fields[:4], " ")
	rest := strings.TrimSpace(strings.Join(fields[4:], " "))

	c := Case{FEN: fen}
	for _, opcode := range splitOpcodes(rest) {
		opcode = strings.TrimSpace(opcode)
		if opcode == "" {
			continue
		}
		parts := strings.SplitN(opcode, " ", 2)
		keyword := parts[0]
		operand := ""
		if len(parts) > 1 {
			operand = strings.TrimSpace(parts[1])
		}
		switch keyword {
		case "bm":
			c.BM = strings.Fields(operand)
		case "am":
			c.AM = strings.Fields(operand)
		case "id":
			c.ID = strings.Trim(operand, `"`)
		}
	}
	return c, nil
}

// splitOpcodes splits on ';' terminators, spec.md §6's "keyword operand;"
// grammar.
func splitOpcodes(s string) []string {
	return strings.Split(s, ";")
}

// Result is one test case's outcome.
type Result struct {
	ID     string
	Move   string
	Passed bool
}

// RunSuite runs search on every case and scores the returned move against
// its bm/am opcodes (spec.md §6): any bm move matching is a pass, any am
// move matching is a fail, and a case with neither opcode always passes.
// RunSuite does not use depth itself; search decides how deep to look.
func RunSuite(cases []Case, depth int, search func(board.Position) board.Move) []Result {
	var results []Result
	for _, c := range cases {
		results = append(results, runCase(c, search))
	}
	return results
}

func runCase(c Case, search func(board.Position) board.Move) Result {
	pos, err := board.FromFEN(c.FEN)
	if err != nil {
		return Result{ID: c.ID, Passed: false}
	}

	best := search(*pos)
	moveStr := best.String()
	sanStr := best.ToSAN(pos)

	passed := true
	if len(c.AM) > 0 {
		for _, am := range c.AM {
			if am == sanStr || am == moveStr {
				passed = false
			}
		}
	}
	if len(c.BM) > 0 {
		passed = false
		for _, bm := range c.BM {
			if bm == sanStr || bm == moveStr {
				passed = true
			}
		}
	}

	return Result{ID: c.ID, Move: sanStr, Passed: passed}
}
