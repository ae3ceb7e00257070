package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Text puzzle definition format:
//
//	line 1:  <rounds> <actionsPerRound>
//	line 2:  start tokens, e.g. "10P 3A"
//	line 3:  target tokens (only listed kinds are constrained)
//	rest:    one action per line, "<cost tokens> => <reward tokens>"
//
// Tokens are <integer><single-letter-kind>. Malformed input is a
// construction-time error; a quantity is never silently defaulted.

// LoadPuzzle reads a puzzle definition file. The puzzle is named after the
// file's base name.
func LoadPuzzle(path string) (*Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open puzzle: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParsePuzzle(name, f)
}

// ParsePuzzle parses a puzzle definition from r.
func ParsePuzzle(name string, r io.Reader) (*Puzzle, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read puzzle: %w", err)
	}
	return parseDefinition(name, lines)
}

// parseDefinition builds a puzzle from pre-split non-blank definition
// lines. The kind table is discovered up front from every token in the
// definition, so lookups during vector parsing cannot miss.
func parseDefinition(name string, lines []string) (*Puzzle, error) {
	if len(lines) < 3 {
		return nil, fmt.Errorf("puzzle %s: need at least 3 lines, got %d", name, len(lines))
	}

	var seen [128]bool
	for _, line := range lines[1:] {
		for _, tok := range strings.Fields(line) {
			if tok == "=>" {
				continue
			}
			if _, letter, err := parseToken(tok); err == nil {
				seen[letter] = true
			}
		}
	}
	table, err := newKindTable(&seen)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", name, err)
	}

	header := strings.Fields(lines[0])
	if len(header) != 2 {
		return nil, fmt.Errorf("puzzle %s: header must be \"<rounds> <actionsPerRound>\", got %q", name, lines[0])
	}
	rounds, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: bad round count %q", name, header[0])
	}
	perRound, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: bad actions-per-round %q", name, header[1])
	}

	start, err := parseVector(lines[1], table)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s start: %w", name, err)
	}
	target, err := parseVector(lines[2], table)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s target: %w", name, err)
	}

	actions := make([]Action, 0, len(lines)-3)
	for i, line := range lines[3:] {
		a, err := parseAction(line, i, table)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s action %d: %w", name, i, err)
		}
		actions = append(actions, a)
	}

	return NewPuzzle(name, rounds, perRound, start, target, actions, table)
}

// parseAction parses one "<cost> => <reward>" line.
func parseAction(line string, index int, t *KindTable) (Action, error) {
	parts := strings.Split(line, "=>")
	if len(parts) != 2 {
		return Action{}, fmt.Errorf("want exactly one \"=>\" in %q", line)
	}
	cost, err := parseVector(parts[0], t)
	if err != nil {
		return Action{}, fmt.Errorf("cost: %w", err)
	}
	reward, err := parseVector(parts[1], t)
	if err != nil {
		return Action{}, fmt.Errorf("reward: %w", err)
	}
	return Action{Cost: cost, Reward: reward, Index: index, Text: line}, nil
}

// parseVector parses whitespace-separated tokens into a vector. A kind may
// appear at most once; quantities are nonnegative integers.
func parseVector(s string, t *KindTable) (Vector, error) {
	v := NewVector(t)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return v, fmt.Errorf("empty resource list")
	}
	for _, tok := range fields {
		n, letter, err := parseToken(tok)
		if err != nil {
			return v, err
		}
		k, ok := t.KindOf(letter)
		if !ok {
			return v, fmt.Errorf("kind %c not in puzzle domain", letter)
		}
		if v.Has(k) {
			return v, fmt.Errorf("duplicate kind %c", letter)
		}
		v.Set(k, n)
	}
	return v, nil
}

// parseToken splits "<integer><letter>" into its parts.
func parseToken(tok string) (int, byte, error) {
	if len(tok) < 2 {
		return 0, 0, fmt.Errorf("malformed token %q", tok)
	}
	letter := tok[len(tok)-1]
	if !(letter >= 'A' && letter <= 'Z' || letter >= 'a' && letter <= 'z') {
		return 0, 0, fmt.Errorf("token %q: kind must be a letter", tok)
	}
	digits := tok[:len(tok)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, fmt.Errorf("token %q: quantity must be a nonnegative integer", tok)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, fmt.Errorf("token %q: %w", tok, err)
	}
	return n, letter, nil
}
