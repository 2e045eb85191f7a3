package generator

import "context"

// MockLLM is a local placeholder implementation that answers every stage with
// a small well-formed payload. Useful for running the server without an API
// key; tests use their own scripted stubs.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	return mockResponse(prompt.Stage), nil
}

func (m MockLLM) CompleteStream(_ context.Context, prompt Prompt, onDelta func(string)) (string, error) {
	text := mockResponse(prompt.Stage)
	if onDelta != nil {
		onDelta(text)
	}
	return text, nil
}

func mockResponse(stage string) string {
	switch stage {
	case StageAnalyst:
		return `{
  "sections_required": ["כללי", "הצדדים", "רקע עובדתי", "סיכום"],
  "applicable_laws": ["חוק פיצויי פיטורים, תשכ\"ג-1963"],
  "appendices_detected": [
    {"number": 1, "description": "תלושי שכר", "reference_text": "תלושי שכר מצורפים כנספח 1"}
  ],
  "flags": {"harassment": false, "improper_hearing": false}
}`
	case StageVerifier:
		return `{
  "verified_sections": [],
  "verification_notes": ["אושר ללא שינויים"],
  "amounts_verified": true
}`
	default:
		return `{
  "gender_form": "male",
  "sections": [
    {"header": "כללי", "paragraphs": ["התובע/ת מגיש/ה תביעה זו כנגד הנתבע/ת."]},
    {"header": "פיצויי פיטורים", "paragraphs": ["התובע/ת זכאי/ת לפיצויי פיטורים."]}
  ],
  "appendices": [
    {"number": 1, "description": "תלושי שכר", "reference_text": "מצורפים כנספח 1"}
  ],
  "calculations": [
    {"component": "פיצויי פיטורים", "formula": "10,000 ₪ × 2.5 שנים = 25,000 ₪", "amount": 25000}
  ],
  "legal_citations": ["חוק פיצויי פיטורים, תשכ\"ג-1963"],
  "summary_total": 25000
}`
	}
}
