// Package uci implements a line-oriented driver for the Universal Chess
// Interface protocol over stdin/stdout, grounded on the teacher's
// internal/uci/uci.go (hailam-chessplay).
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/arcbit/chesscore/internal/board"
	"github.com/arcbit/chesscore/internal/engine"
	"github.com/arcbit/chesscore/internal/epd"
	"github.com/arcbit/chesscore/internal/store"
)

const defaultStoreDir = ".chesscore_history"

const defaultHashMB = 64

// Driver owns the engine, the current position, and the UCI session
// state (spec.md §6).
type Driver struct {
	out   io.Writer
	debug bool

	hashMB   int
	search   *engine.Search
	position *board.Position
	history  []board.Move

	searching  bool
	searchDone chan struct{}
}

// New returns a Driver writing UCI output to out.
func New(out io.Writer) *Driver {
	return &Driver{
		out:      out,
		hashMB:   defaultHashMB,
		search:   engine.NewSearch(defaultHashMB),
		position: board.NewStartPosition(),
	}
}

// Run reads UCI commands from in until "quit" or EOF (spec.md §6).
func (d *Driver) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if d.dispatch(line) {
			return
		}
	}
}

// dispatch handles one input line, returning true on "quit".
func (d *Driver) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		d.handleUCI()
	case "debug":
		d.handleDebug(args)
	case "isready":
		fmt.Fprintln(d.out, "readyok")
	case "setoption":
		d.handleSetOption(args)
	case "position":
		d.handlePosition(args)
	case "go":
		d.handleGo(args)
	case "stop":
		d.handleStop()
	case "ponderhit":
		// no ponder search mode implemented; treated as a no-op.
	case "quit":
		d.handleStop()
		return true
	case "eval":
		d.handleEval()
	case "perft":
		d.handlePerft(args)
	case "run_test":
		d.handleRunTest(args)
	}
	return false
}

func (d *Driver) handleUCI() {
	fmt.Fprintln(d.out, "id name chesscore")
	fmt.Fprintln(d.out, "id author arcbit")
	fmt.Fprintln(d.out, "option name Hash type spin default 64 min 1 max 4096")
	fmt.Fprintln(d.out, "option name Ponder type check default false")
	fmt.Fprintln(d.out, "uciok")
}

func (d *Driver) handleDebug(args []string) {
	if len(args) == 0 {
		return
	}
	d.debug = args[0] == "on"
	d.search.SetDebug(d.debug)
}

func (d *Driver) handleSetOption(args []string) {
	name, value := parseNameValue(args)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			return
		}
		d.hashMB = mb
		d.search = engine.NewSearch(mb)
		if d.debug {
			bytes := uint64(mb) * 1024 * 1024
			fmt.Fprintf(d.out, "info string Hash set to %d MiB (%s bytes)\n", mb, humanize.Comma(int64(bytes)))
		}
	case "ponder":
		// accepted, no ponder search mode implemented.
	}
}

func parseNameValue(args []string) (name, value string) {
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				name = appendWord(name, a)
			} else if readingValue {
				value = appendWord(value, a)
			}
		}
	}
	return name, value
}

func appendWord(s, w string) string {
	if s == "" {
		return w
	}
	return s + " " + w
}

// handlePosition parses "position [startpos|fen <fen>] [moves <m>...]"
// (spec.md §6).
func (d *Driver) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesIdx := -1
	for i, a := range args {
		if a == "moves" {
			movesIdx = i
			break
		}
	}

	fenEnd := len(args)
	if movesIdx >= 0 {
		fenEnd = movesIdx
	}

	switch args[0] {
	case "startpos":
		d.position = board.NewStartPosition()
	case "fen":
		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.FromFEN(fenStr)
		if err != nil {
			fmt.Fprintf(d.out, "info string Invalid FEN: %v\n", err)
			return
		}
		d.position = pos
	default:
		return
	}

	d.history = nil
	if movesIdx >= 0 {
		for _, ms := range args[movesIdx+1:] {
			m, err := board.ParseLongAlgebraic(ms, d.position)
			if err != nil {
				fmt.Fprintf(d.out, "info string Invalid move: %s\n", ms)
				return
			}
			if !d.position.MakeMove(m) {
				fmt.Fprintf(d.out, "info string Illegal move: %s\n", ms)
				return
			}
			d.history = append(d.history, m)
		}
	}
}

func (d *Driver) handleGo(args []string) {
	limits := parseGoLimits(args)

	d.searching = true
	d.searchDone = make(chan struct{})
	pos := d.position.Copy()
	sink := &driverSink{d: d}
	d.search.SetInfoSink(sink)

	go func() {
		defer close(d.searchDone)
		best := d.search.Start(pos, limits)
		d.searching = false
		if best.IsInvalid() || best.IsNull() {
			fmt.Fprintln(d.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(d.out, "bestmove %s\n", best.String())
	}()
}

func parseGoLimits(args []string) engine.UCILimits {
	var limits engine.UCILimits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				limits.Time[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		}
	}
	return limits
}

func (d *Driver) handleStop() {
	if d.searching {
		d.search.Stop()
		<-d.searchDone
	}
}

func (d *Driver) handleEval() {
	b := d.search.Eval.Breakdown(d.position)
	fmt.Fprintf(d.out, "info string eval material %d pst %d mobility %d pawns %d rooks %d king %d pins %d tempo %d total %d\n",
		b.Material, b.PST, b.Mobility, b.PawnStruct, b.RookFiles, b.KingSafety, b.Pins, b.Tempo, b.Total)
}

// handlePerft runs "perft [depth <n>] [divided]" on the current position
// (spec.md §6). Only depth and divided are acted on; "full" and
// "moves <n> m1..mn" are not handled and are ignored.
func (d *Driver) handlePerft(args []string) {
	depth := 5
	divided := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "divided":
			divided = true
		}
	}

	start := time.Now()
	if divided {
		counts := d.position.PerftDivided(depth)
		var total int64
		for move, n := range counts {
			fmt.Fprintf(d.out, "%s: %d\n", move, n)
			total += n
		}
		fmt.Fprintf(d.out, "\nNodes: %d\n", total)
	} else {
		nodes := board.Perft(d.position, depth)
		fmt.Fprintf(d.out, "Nodes: %d\n", nodes)
	}
	elapsed := time.Since(start)
	fmt.Fprintf(d.out, "Time: %s\n", elapsed)
}

// handleRunTest runs "run_test <epd-file> <depth> [store-dir]" (spec.md §6):
// parses the EPD suite, searches each position to the given depth, compares
// the returned move against the bm/am opcodes, and persists each case's
// outcome to a regression-history store so a later run can flag cases that
// used to pass and no longer do.
func (d *Driver) handleRunTest(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "info string run_test requires <epd-file> <depth>")
		return
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(d.out, "info string run_test: bad depth")
		return
	}

	cases, err := epd.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(d.out, "info string run_test: %v\n", err)
		return
	}

	storeDir := defaultStoreDir
	if len(args) >= 3 {
		storeDir = args[2]
	}
	hist, err := store.Open(storeDir)
	if err != nil {
		fmt.Fprintf(d.out, "info string run_test: regression store unavailable: %v\n", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	results := epd.RunSuite(cases, depth, func(pos board.Position) board.Move {
		return d.search.Start(pos, engine.UCILimits{Depth: depth})
	})

	passed := 0
	for _, r := range results {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
			passed++
		}
		line := fmt.Sprintf("info string %s %s move=%s", status, r.ID, r.Move)
		if hist != nil {
			if regressed, _ := hist.Regressed(r.ID, r.Passed); regressed {
				line += " REGRESSED"
			}
			hist.SaveRecord(store.Record{ID: r.ID, Passed: r.Passed, Move: r.Move})
		}
		fmt.Fprintln(d.out, line)
	}
	fmt.Fprintf(d.out, "info string %d/%d passed\n", passed, len(results))
}

// driverSink adapts engine.InfoSink to UCI output lines (spec.md §6).
type driverSink struct {
	d *Driver
}

func (s *driverSink) Iteration(depth, score int, mate bool, pv []board.Move, nodes uint64, elapsed time.Duration) {
	var scorePart string
	if mate {
		plies := engine.MaxMate - score
		if score < 0 {
			plies = -engine.MaxMate - score
		}
		scorePart = fmt.Sprintf("score mate %d", (plies+1)/2)
	} else {
		scorePart = fmt.Sprintf("score cp %d", score)
	}

	pvStr := ""
	for _, m := range pv {
		pvStr += " " + m.String()
	}

	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}

	fmt.Fprintf(s.d.out, "info depth %d %s nodes %d nps %d time %d pv%s\n",
		depth, scorePart, nodes, nps, elapsed.Milliseconds(), pvStr)
}

func (s *driverSink) CurrMove(m board.Move, number int) {
	fmt.Fprintf(s.d.out, "info currmove %s currmovenumber %d\n", m.String(), number)
}

func (s *driverSink) Nodes(nodes, nps uint64) {
	fmt.Fprintf(s.d.out, "info nodes %d nps %d\n", nodes, nps)
}

func (s *driverSink) HashFull(permille int) {
	fmt.Fprintf(s.d.out, "info hashfull %d\n", permille)
}

func (s *driverSink) DebugString(str string) {
	if s.d.debug {
		fmt.Fprintf(s.d.out, "info string %s\n", str)
	}
}
