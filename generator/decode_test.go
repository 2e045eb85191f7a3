package generator

import (
	"errors"
	"testing"
)

type probe struct {
	Header string `json:"header"`
	Count  int    `json:"count"`
}

func TestDecodePayloadStrategies(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		strategy DecodeStrategy
	}{
		{
			"direct",
			`{"header": "כללי", "count": 2}`,
			StrategyDirect,
		},
		{
			"fenced",
			"```json\n{\"header\": \"כללי\", \"count\": 2}\n```",
			StrategyFenceStripped,
		},
		{
			"fenced without close",
			"```json\n{\"header\": \"כללי\", \"count\": 2}",
			StrategyFenceStripped,
		},
		{
			"prose around object",
			"הנה התשובה:\n{\"header\": \"כללי\", \"count\": 2}\nסוף.",
			StrategyBraceMatched,
		},
		{
			"brace inside string literal",
			"text {\"header\": \"סוגר } בתוך מחרוזת\", \"count\": 2} trailing",
			StrategyBraceMatched,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p probe
			attempt, err := decodePayload(tt.raw, &p)
			if err != nil {
				t.Fatalf("decodePayload: %v", err)
			}
			if attempt.Strategy != tt.strategy {
				t.Errorf("strategy = %s, want %s", attempt.Strategy, tt.strategy)
			}
			if p.Count != 2 {
				t.Errorf("payload not populated: %+v", p)
			}
		})
	}
}

func TestDecodeStrategyString(t *testing.T) {
	tests := []struct {
		s    DecodeStrategy
		want string
	}{
		{StrategyDirect, "direct"},
		{StrategyFenceStripped, "fence-stripped"},
		{StrategyBraceMatched, "brace-matched"},
		{StrategyFirstToLast, "first-to-last-brace"},
		{DecodeStrategy(0), "none"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDecodePayloadFailure(t *testing.T) {
	var p probe
	_, err := decodePayload("לא קיים כאן שום JSON", &p)
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if derr.Raw == "" {
		t.Error("DecodeError should retain the raw response")
	}
}

func TestStripMarkdownFences(t *testing.T) {
	if got := stripMarkdownFences("no fences here"); got != "" {
		t.Errorf("unfenced text should yield empty, got %q", got)
	}
	if got := stripMarkdownFences("```json\n{\"a\":1}\n```\ntrailing"); got != `{"a":1}` {
		t.Errorf("fenced body = %q", got)
	}
}
