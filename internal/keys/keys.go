// Package keys builds memocache storage keys.
package keys

import (
	"crypto/md5"
	"encoding"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Sep joins key segments.
const Sep = ":"

// ErrAmbiguous reports an argument whose encoding would not tell every value
// of its type apart, so different calls could share a key.
var ErrAmbiguous = errors.New("keys: argument cannot be hashed unambiguously")

const maxDepth = 64

var (
	typeTime            = reflect.TypeOf(time.Time{})
	typeBigInt          = reflect.TypeOf(big.Int{})
	typeCBORMarshaler   = reflect.TypeOf((*cbor.Marshaler)(nil)).Elem()
	typeBinaryMarshaler = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
)

// argsMode encodes with RFC 8949 core deterministic rules: map keys are
// sorted, so named arguments hash the same in any order. Times keep
// nanoseconds; the default would truncate them to whole seconds.
var argsMode = func() cbor.EncMode {
	eo := cbor.CoreDetEncOptions()
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Prefixed returns prefix:key, or key unchanged when prefix is empty.
func Prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Sep + key
}

// PrefixedAll applies Prefixed to every key, preserving order. The input is not modified.
func PrefixedAll(prefix string, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = Prefixed(prefix, k)
	}
	return out
}

// Function returns the key prefix shared by every entry of the named function.
func Function(name string) string { return name + Sep }

// Call returns the per-call key name:hash.
func Call(name, hash string) string { return Function(name) + hash }

// HashArgs digests the argument tuple (positional, named) to 32 hex chars.
// Equal values give equal digests regardless of identity, so a pointer
// hashes like the value it points to. nil and empty argument lists are the
// same tuple.
//
// Structs with unexported fields, or fields tagged "-", fail with
// ErrAmbiguous: the encoder skips those fields. time.Time, big.Int and types
// implementing cbor.Marshaler or encoding.BinaryMarshaler encode themselves
// and are accepted.
func HashArgs(positional []any, named map[string]any) (string, error) {
	if positional == nil {
		positional = []any{}
	}
	if named == nil {
		named = map[string]any{}
	}
	if err := checkArg(reflect.ValueOf(positional), 0); err != nil {
		return "", err
	}
	if err := checkArg(reflect.ValueOf(named), 0); err != nil {
		return "", err
	}
	b, err := argsMode.Marshal([]any{positional, named})
	if err != nil {
		return "", fmt.Errorf("keys: encode arguments: %w", err)
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}

// checkArg fails on any value reachable from v that the encoder would
// encode without all of its state.
func checkArg(v reflect.Value, depth int) error {
	if !v.IsValid() {
		return nil
	}
	if depth > maxDepth {
		return fmt.Errorf("%w: nested deeper than %d", ErrAmbiguous, maxDepth)
	}
	t := v.Type()
	if t == typeTime || t == typeBigInt || t.Implements(typeCBORMarshaler) || t.Implements(typeBinaryMarshaler) {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkArg(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkArg(v.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			if err := checkArg(it.Key(), depth+1); err != nil {
				return err
			}
			if err := checkArg(it.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				return fmt.Errorf("%w: %s has unexported field %s", ErrAmbiguous, t, f.Name)
			}
			if skipped(f) {
				return fmt.Errorf("%w: field %s.%s is excluded from encoding", ErrAmbiguous, t, f.Name)
			}
			if err := checkArg(v.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipped mirrors the encoder's tag lookup: cbor first, then json.
func skipped(f reflect.StructField) bool {
	tag := f.Tag.Get("cbor")
	if tag == "" {
		tag = f.Tag.Get("json")
	}
	return tag == "-"
}
