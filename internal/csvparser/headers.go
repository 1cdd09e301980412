package csvparser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// HEADER NORMALIZATION
// =============================================================================

var whitespaceRun = regexp.MustCompile(`\s+`)

const utf8BOM = "\ufeff"

// NormalizeHeader converts a raw header into its canonical key.
//
// RULES (applied in order):
//   1. Strip a leading byte-order mark
//   2. Trim and lowercase
//   3. Collapse whitespace runs into a single "_"
//   4. Remove every "?"
//   5. "order_#" (from "Order #") becomes "order_number"
//
// EXAMPLES:
//   "Order #"       -> "order_number"
//   "Prepaid  Tip"  -> "prepaid_tip"
//   "Scheduled?"    -> "scheduled"
//   "Transaction ID" -> "transaction_id"
func NormalizeHeader(raw string) string {
	h := strings.TrimPrefix(raw, utf8BOM)
	h = strings.ToLower(strings.TrimSpace(h))
	h = whitespaceRun.ReplaceAllString(h, "_")
	h = strings.ReplaceAll(h, "?", "")
	if h == "order_#" {
		h = "order_number"
	}
	return h
}

// HeaderCollisionError reports raw headers that normalize to the same key.
// The file cannot be read unambiguously and is rejected.
type HeaderCollisionError struct {
	// Collisions maps each duplicated key to the raw headers producing it.
	Collisions map[string][]string
}

func (e *HeaderCollisionError) Error() string {
	keys := make([]string, 0, len(e.Collisions))
	for k := range e.Collisions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s <- %q", k, e.Collisions[k]))
	}
	return "headers collide after normalization: " + strings.Join(parts, "; ")
}

// NormalizeHeaders normalizes a header row. Blank headers become
// "column_<n>" (1-indexed) so they stay addressable.
//
// RETURNS:
//   - The normalized headers, in source order.
//   - A *HeaderCollisionError if two raw headers share a key.
func NormalizeHeaders(raw []string) ([]string, error) {
	out := make([]string, len(raw))
	sources := make(map[string][]string, len(raw))

	for i, h := range raw {
		key := NormalizeHeader(h)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		out[i] = key
		sources[key] = append(sources[key], h)
	}

	var collisions map[string][]string
	for key, from := range sources {
		if len(from) < 2 {
			continue
		}
		if collisions == nil {
			collisions = make(map[string][]string)
		}
		collisions[key] = from
	}
	if collisions != nil {
		return nil, &HeaderCollisionError{Collisions: collisions}
	}

	return out, nil
}
