package main

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// JSON puzzle archive format, a bundle of named definitions:
//
//	{
//	  "puzzles": [
//	    {
//	      "name": "apollo",
//	      "rounds": 3,
//	      "actionsPerRound": 4,
//	      "start": "10P 3A",
//	      "target": "5C 2D 1N",
//	      "actions": ["1D 1N => 3C", "1P => 3C"]
//	    }
//	  ]
//	}
//
// Vector and action strings use the same token grammar as the text format.

// LoadArchive reads every puzzle from a JSON archive file.
func LoadArchive(path string) ([]*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return ParseArchive(string(data))
}

// ParseArchive parses the puzzles of a JSON archive document.
func ParseArchive(doc string) ([]*Puzzle, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("archive: invalid JSON")
	}
	list := gjson.Get(doc, "puzzles")
	if !list.IsArray() {
		return nil, fmt.Errorf("archive: missing \"puzzles\" array")
	}

	var puzzles []*Puzzle
	var firstErr error
	list.ForEach(func(i, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" {
			name = fmt.Sprintf("puzzle-%d", int(i.Int()))
		}
		p, err := parseArchiveEntry(name, v)
		if err != nil {
			firstErr = err
			return false
		}
		puzzles = append(puzzles, p)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if len(puzzles) == 0 {
		return nil, fmt.Errorf("archive: no puzzles")
	}
	return puzzles, nil
}

// parseArchiveEntry lowers one archive entry into definition lines and
// reuses the text parser, so both loaders enforce identical rules.
func parseArchiveEntry(name string, v gjson.Result) (*Puzzle, error) {
	rounds := v.Get("rounds")
	perRound := v.Get("actionsPerRound")
	start := v.Get("start")
	target := v.Get("target")
	if !rounds.Exists() || !perRound.Exists() {
		return nil, fmt.Errorf("archive puzzle %s: missing rounds/actionsPerRound", name)
	}
	if !start.Exists() || !target.Exists() {
		return nil, fmt.Errorf("archive puzzle %s: missing start/target", name)
	}

	lines := []string{
		fmt.Sprintf("%d %d", rounds.Int(), perRound.Int()),
		start.String(),
		target.String(),
	}
	v.Get("actions").ForEach(func(_, a gjson.Result) bool {
		lines = append(lines, a.String())
		return true
	})
	return parseDefinition(name, lines)
}

// FindPuzzle returns the archive puzzle with the given name, or nil.
func FindPuzzle(puzzles []*Puzzle, name string) *Puzzle {
	for _, p := range puzzles {
		if p.Name == name {
			return p
		}
	}
	return nil
}
