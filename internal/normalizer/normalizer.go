// Package normalizer repairs a known artifact of the legacy dump writer:
// some document keys arrive with a literal pair of double-quote characters
// baked into the key text (`"foo"` instead of `foo`). Normalize strips
// exactly that one outer pair. It is a syntactic rewrite, not a quote
// parser: a key the user genuinely wrapped in quotes is stripped too,
// which is why the converter exposes a switch to turn the pass off.
package normalizer

import "github.com/mcncl/debson/internal/models"

// Normalize returns v with quote-wrapped document keys stripped, at every
// nesting level. It is pure and total: scalars pass through untouched and
// containers are rebuilt rather than mutated. Keys are not deduplicated
// after stripping; if two keys collide the later one wins at encode time.
func Normalize(v models.Value) models.Value {
	switch t := v.(type) {
	case models.Document:
		out := make(models.Document, len(t))
		for i, f := range t {
			out[i] = models.Field{
				Key:   stripKey(f.Key),
				Value: Normalize(f.Value),
			}
		}
		return out
	case models.Array:
		out := make(models.Array, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// stripKey removes one outer pair of double quotes. Anything shorter than
// two characters, or not quoted on both ends, is left alone.
func stripKey(key string) string {
	if len(key) >= 2 && key[0] == '"' && key[len(key)-1] == '"' {
		return key[1 : len(key)-1]
	}
	return key
}
