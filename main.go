//go:build !lambda

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

func runPuzzle(p *Puzzle, cfg Config, greedy bool) (SolveReport, string, error) {
	solver := NewSolver(p, cfg)
	start := time.Now()

	var seq []int
	var solved bool
	var detail string
	mode := "optimal"
	if greedy {
		mode = "greedy"
		st, ok := solver.Solve()
		solved = ok
		// The partial sequence of a failed run is not part of the report.
		if solved {
			seq = st.Sequence
			detail = FormatGreedy(p, st)
		}
	} else {
		seq, solved = solver.FindMinSteps()
		if solved {
			var err error
			detail, err = FormatResult(p, seq)
			if err != nil {
				return SolveReport{}, "", err
			}
		}
	}

	return SolveReport{
		Name:     p.Name,
		Mode:     mode,
		Solved:   solved,
		Steps:    len(seq),
		Sequence: seq,
		TimeMs:   time.Since(start).Milliseconds(),
	}, detail, nil
}

func runAll(puzzles []*Puzzle, cfg Config, greedy, jsonOut bool) {
	var reports []SolveReport
	var totalMs int64

	for i, p := range puzzles {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s ...\n", i+1, len(puzzles), p.Name)
		r, detail, err := runPuzzle(p, cfg, greedy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		reports = append(reports, r)
		totalMs += r.TimeMs

		if r.Solved {
			if !jsonOut {
				fmt.Println(detail)
			}
		} else {
			fmt.Fprintf(os.Stderr, "  %s: no solution within %d moves\n", p.Name, p.Budget())
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(reports)
	} else {
		printTable(reports, totalMs)
	}
}

const usage = `Usage: mission-planner [flags] <puzzle.txt>
       mission-planner [flags] -archive <archive.json> [-name <puzzle>]

Computes the shortest action sequence reaching the target inventory, or a
fast greedy sequence with -greedy.

Flags:
`

func main() {
	greedy := flag.Bool("greedy", false, "Use the greedy baseline instead of the exhaustive search")
	jsonOut := flag.Bool("json", false, "Output results as JSON")
	verbose := flag.Bool("verbose", false, "Print search progress and statistics to stderr")
	archivePath := flag.String("archive", "", "Run puzzles from a JSON archive instead of a text file")
	name := flag.String("name", "", "With -archive, run only the named puzzle")
	configPath := flag.String("config", "", "YAML solver config file")
	prune := flag.Bool("prune", false, "Enable the power-dominance pruning heuristic (faster, may miss alternatives)")
	maxNodes := flag.Int("max-nodes", 0, "Stop after expanding this many nodes, keep best found (0 = unlimited)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *prune {
		cfg.PowerPrune = true
	}
	if *maxNodes > 0 {
		cfg.MaxNodes = *maxNodes
	}
	if *verbose {
		cfg.Verbose = true
	}

	var puzzles []*Puzzle
	switch {
	case *archivePath != "":
		all, err := LoadArchive(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if *name != "" {
			p := FindPuzzle(all, *name)
			if p == nil {
				fmt.Fprintf(os.Stderr, "error: puzzle %q not in archive\n", *name)
				os.Exit(1)
			}
			puzzles = []*Puzzle{p}
		} else {
			puzzles = all
		}
	case flag.NArg() == 1:
		p, err := LoadPuzzle(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		puzzles = []*Puzzle{p}
	default:
		flag.Usage()
		os.Exit(1)
	}

	runAll(puzzles, cfg, *greedy, *jsonOut)
}
