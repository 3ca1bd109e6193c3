package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Func maps raw user input to the lookup key form.
type Func func(string) string

// Lower lowercases input without trimming, for inputs where surrounding
// whitespace must not be accepted.
func Lower(s string) string { return strings.ToLower(s) }

// LowerTrim lowercases and trims input. It is the default normalization.
func LowerTrim(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
	normalize    Func
}

// NewNormalizer creates a normalizer using LowerTrim for both keys and input.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	return WithCustomNormalizer(values, defaultValue, LowerTrim)
}

// WithCustomNormalizer creates a normalizer applying fn to both the keys of
// values and every raw input.
func WithCustomNormalizer[T comparable](values map[string]T, defaultValue T, fn Func) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := fn(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
		normalize:    fn,
	}
}

// Key returns the normalized lookup form of raw.
func (n *Normalizer[T]) Key(raw string) string {
	return n.normalize(raw)
}

// Normalize converts raw to the enum type, returning the default when unrecognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.Lookup(raw); ok {
		return value
	}
	return n.defaultValue
}

// Lookup converts raw to the enum type and reports whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	value, ok := n.validValues[n.normalize(raw)]
	return value, ok
}

// NormalizeWithError converts raw to the enum type or returns an error naming the valid keys.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, ok := n.Lookup(raw); ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}
