package ai

import (
	"encoding/json"
	"fmt"

	"github.com/studyflow/studyflow/core/model"
)

// envelope covers the common response shapes: a plan under "plan", a plan
// nested under "output", or free text carrying embedded JSON.
type envelope struct {
	Plan   *model.Plan `json:"plan"`
	Output *struct {
		Plan *model.Plan `json:"plan"`
		Text string      `json:"text"`
	} `json:"output"`
	Text string `json:"text"`
}

// DecodePlan extracts a Plan from a backend response body. The narrowing
// contract: attempt a strict decode of the whole body; on failure or an
// unshaped result, locate the first balanced brace-delimited span and decode
// that; otherwise report no result.
func DecodePlan(raw []byte) (*model.Plan, error) {
	if plan := decodeStrict(raw); plan != nil {
		return plan, nil
	}

	// Free text path. Prefer an embedded text field when the body itself is
	// valid JSON, otherwise scan the raw body.
	text := string(raw)
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Text != "" {
			text = env.Text
		} else if env.Output != nil && env.Output.Text != "" {
			text = env.Output.Text
		}
	}
	if span, ok := firstJSONObject(text); ok {
		if plan := decodeStrict([]byte(span)); plan != nil {
			return plan, nil
		}
	}
	return nil, fmt.Errorf("no plan found in backend response")
}

// decodeStrict tries the envelope shapes and then a bare plan. A result is
// shaped only when it carries a slots array.
func decodeStrict(raw []byte) *model.Plan {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if shaped(env.Plan) {
			return env.Plan
		}
		if env.Output != nil && shaped(env.Output.Plan) {
			return env.Output.Plan
		}
	}
	var plan model.Plan
	if err := json.Unmarshal(raw, &plan); err == nil && shaped(&plan) {
		return &plan
	}
	return nil
}

func shaped(p *model.Plan) bool {
	return p != nil && p.Slots != nil
}

// firstJSONObject returns the first balanced {...} span in s, honoring
// string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
