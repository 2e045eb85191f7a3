package generator

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeStrategy identifies which extraction method recovered a payload.
type DecodeStrategy int

const (
	StrategyDirect DecodeStrategy = iota + 1
	StrategyFenceStripped
	StrategyBraceMatched
	StrategyFirstToLast
)

func (s DecodeStrategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyFenceStripped:
		return "fence-stripped"
	case StrategyBraceMatched:
		return "brace-matched"
	case StrategyFirstToLast:
		return "first-to-last-brace"
	default:
		return "none"
	}
}

// DecodeAttempt records the winning strategy for diagnostics.
type DecodeAttempt struct {
	Strategy DecodeStrategy
}

// DecodeError means every strategy was exhausted. The raw response is kept so
// the caller may degrade to wrapping it instead of dropping generated content.
type DecodeError struct {
	Raw string
}

func (e *DecodeError) Error() string {
	return "no decode strategy recovered a payload"
}

// decodePayload extracts a JSON object payload from model output that is not
// guaranteed to be well-formed. Strategies are tried in order of fidelity:
// direct parse, markdown fence stripping, structural brace matching, and the
// naive first-to-last-brace substring.
func decodePayload(raw string, v any) (DecodeAttempt, error) {
	text := strings.TrimSpace(raw)

	if candidate := text; strings.HasPrefix(candidate, "{") {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return DecodeAttempt{Strategy: StrategyDirect}, nil
		}
	}

	if stripped := stripMarkdownFences(text); stripped != "" {
		if err := json.Unmarshal([]byte(strings.TrimSpace(stripped)), v); err == nil {
			return DecodeAttempt{Strategy: StrategyFenceStripped}, nil
		}
	}

	if candidate := matchedBraceSubstring(text); candidate != "" && gjson.Valid(candidate) {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return DecodeAttempt{Strategy: StrategyBraceMatched}, nil
		}
	}

	if candidate := firstToLastBrace(text); candidate != "" {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return DecodeAttempt{Strategy: StrategyFirstToLast}, nil
		}
	}

	return DecodeAttempt{}, &DecodeError{Raw: raw}
}

// stripMarkdownFences removes a single leading/trailing ``` fence pair and
// returns the enclosed lines, or "" when no fence opens the text.
func stripMarkdownFences(text string) string {
	lines := strings.Split(text, "\n")
	var inner []string
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```") && !inFence:
			inFence = true
		case trimmed == "```" && inFence:
			return strings.Join(inner, "\n")
		case inFence:
			inner = append(inner, line)
		}
	}
	if inFence {
		// Opening fence without a closing one; use what accumulated.
		return strings.Join(inner, "\n")
	}
	return ""
}

// matchedBraceSubstring finds the first '{' and returns the substring up to
// its structurally matching '}', counting depth and skipping string literals.
func matchedBraceSubstring(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// firstToLastBrace returns the naive substring from the first '{' to the last
// '}', the lowest-fidelity recovery before giving up entirely.
func firstToLastBrace(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
