// Command chesscore runs the UCI protocol driver over stdin/stdout,
// grounded on the teacher's cmd/chessplay-uci/main.go (hailam-chessplay)
// stripped of GUI/NNUE/tablebase setup out of scope for this core.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/arcbit/chesscore/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	driver := uci.New(os.Stdout)
	driver.Run(os.Stdin)
}
