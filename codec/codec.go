// Package codec holds the serializers memocache uses to turn cached values
// into store payloads and back.
//
// A Codec must round-trip the values a caller caches: Unmarshal(Marshal(v), &w)
// leaves w equal to v. Failures are returned, never panicked, so the cache can
// log them and fall back to calling the wrapped function.
package codec

// Codec encodes arbitrary values to []byte and decodes them into a pointer.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}
