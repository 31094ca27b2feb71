package memocache

import "github.com/unkn0wn-root/memocache/internal/keys"

// HashArguments digests an argument tuple into a 32-char hex key segment.
// Positional order matters, named argument order does not, and only values
// count: two equal tuples always hash the same. It fails for values that
// cannot be encoded, such as channels or funcs.
func HashArguments(positional []any, named map[string]any) (string, error) {
	return keys.HashArgs(positional, named)
}

// FunctionKeyPrefix returns "name:", the prefix shared by every entry a
// memoized function named name writes.
func FunctionKeyPrefix(name string) string { return keys.Function(name) }
