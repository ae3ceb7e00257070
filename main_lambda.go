//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type solveRequest struct {
	Puzzle     string `json:"puzzle"` // text-format definition
	Mode       string `json:"mode"`   // "optimal" (default) or "greedy"
	MaxNodes   int    `json:"maxNodes"`
	PowerPrune bool   `json:"powerPrune"`
}

type solveResponse struct {
	Solved   bool   `json:"solved"`
	Steps    int    `json:"steps"`
	Sequence []int  `json:"sequence,omitempty"`
	Detail   string `json:"detail,omitempty"`
	TimeMs   int64  `json:"timeMs"`
}

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req solveRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if req.Puzzle == "" {
		return errResp(400, "missing puzzle field")
	}
	if req.MaxNodes < 0 {
		return errResp(400, "maxNodes must be >= 0")
	}

	p, err := ParsePuzzle("request", strings.NewReader(req.Puzzle))
	if err != nil {
		return errResp(400, err.Error())
	}

	cfg := DefaultConfig()
	cfg.MaxNodes = req.MaxNodes
	cfg.PowerPrune = req.PowerPrune

	solver := NewSolver(p, cfg)
	start := time.Now()
	var seq []int
	var solved bool
	var detail string
	switch req.Mode {
	case "", "optimal":
		seq, solved = solver.FindMinSteps()
		if solved {
			var err error
			detail, err = FormatResult(p, seq)
			if err != nil {
				return errResp(500, err.Error())
			}
		}
	case "greedy":
		st, ok := solver.Solve()
		solved = ok
		if solved {
			seq = st.Sequence
			detail = FormatGreedy(p, st)
		}
	default:
		return errResp(400, "mode must be \"optimal\" or \"greedy\"")
	}

	resp := solveResponse{
		Solved:   solved,
		Steps:    len(seq),
		Sequence: seq,
		Detail:   detail,
		TimeMs:   time.Since(start).Milliseconds(),
	}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
