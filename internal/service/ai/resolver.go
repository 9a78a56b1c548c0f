package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"
)

var (
	// ErrGeneratorUnavailable means the model call itself failed or no
	// generator is configured; a total failure for the request.
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	// ErrUnresolvable means the generator answered but never produced
	// parseable JSON within the attempt budget.
	ErrUnresolvable = errors.New("structured output unresolvable")
)

// strictJSONReminder is appended before the single retry.
const strictJSONReminder = "Return ONLY valid JSON for the schema. No markdown. No extra keys."

// Resolver turns raw model text into a validated object. The attempt budget
// is bounded: one call plus at most one retry with a stricter instruction,
// then the caller substitutes deterministic fallback content.
type Resolver struct {
	gen         Generator
	maxAttempts int
}

// NewResolver builds a Resolver over gen. A nil gen resolves nothing and
// every Resolve call reports ErrGeneratorUnavailable.
func NewResolver(gen Generator) *Resolver {
	return &Resolver{gen: gen, maxAttempts: 2}
}

// Resolve invokes the generator with messages and decodes its output into
// out. The retry resends the original messages plus the strict-JSON
// instruction. Resolve never fabricates content.
func (r *Resolver) Resolve(ctx context.Context, messages []*schema.Message, out any) error {
	if r == nil || r.gen == nil {
		return ErrGeneratorUnavailable
	}

	request := messages
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		raw, err := r.gen.Complete(ctx, request)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
		}

		if err := decodeJSONObject(raw, out); err == nil {
			return nil
		} else if attempt < r.maxAttempts {
			log.Printf("[ai] structured output parse failed, retrying with strict instruction: %v", err)
			request = append(append([]*schema.Message{}, messages...), schema.UserMessage(strictJSONReminder))
		}
	}
	return ErrUnresolvable
}

// decodeJSONObject parses raw as JSON, falling back to the first '{' ...
// last '}' substring to shed prose or markdown fencing around the payload.
func decodeJSONObject(raw string, out any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return errors.New("empty output")
	}

	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return errors.New("missing json object")
	}
	return json.Unmarshal([]byte(trimmed[start:end+1]), out)
}
