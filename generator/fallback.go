package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// rawSectionHeader titles a pseudo-section produced by wrapping undecodable
// model output.
const rawSectionHeader = "כתב תביעה"

// runFallback is the reduced single-call generation used only after the
// primary drafter attempt fails. When its own decode fails it wraps the raw
// text as sections instead of discarding it, so only a remote-call failure
// yields no payload at all.
func (p *Pipeline) runFallback(ctx context.Context, req GenerationRequest) Outcome[DrafterPayload] {
	raw, err := p.llm.Complete(ctx, BuildFallbackPrompt(req))
	if err != nil {
		return failure[DrafterPayload]("", fmt.Errorf("fallback: %w", err))
	}
	var payload DrafterPayload
	if _, derr := decodePayload(raw, &payload); derr != nil {
		return success(wrapRawPayload(raw, req.Gender), raw)
	}
	if len(payload.Sections) == 0 {
		return success(wrapRawPayload(raw, req.Gender), raw)
	}
	return success(payload, raw)
}

// wrapRawPayload degrades undecodable text into a payload rather than losing
// generated content. Plain text with === TITLE === delimiters is split into
// sections; anything else becomes a single pseudo-section.
func wrapRawPayload(raw string, gender Gender) DrafterPayload {
	sections := splitDelimitedSections(raw)
	if len(sections) == 0 {
		sections = []Section{{Header: rawSectionHeader, Paragraphs: nonEmptyLines(raw)}}
	}
	return DrafterPayload{
		GenderForm: string(gender),
		Sections:   sections,
		Degraded:   true,
	}
}

var sectionDelimRe = regexp.MustCompile(`^===\s*(.+?)\s*===$`)

// splitDelimitedSections parses plain text with === TITLE === delimiters.
// Returns nil when the text contains no delimiter at all.
func splitDelimitedSections(raw string) []Section {
	var (
		sections []Section
		current  Section
		seen     bool
	)
	flush := func() {
		if current.Header == "" && len(current.Paragraphs) == 0 {
			return
		}
		if current.Header == "" {
			current.Header = rawSectionHeader
		}
		sections = append(sections, current)
	}
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := sectionDelimRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = Section{Header: m[1]}
			seen = true
			continue
		}
		if trimmed != "" {
			current.Paragraphs = append(current.Paragraphs, trimmed)
		}
	}
	if !seen {
		return nil
	}
	flush()
	return sections
}

func nonEmptyLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
