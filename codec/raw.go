package codec

import "fmt"

// Raw stores []byte and string values as-is. It is meant for functions that
// already produce their own wire format; any other type is an error.
type Raw struct{}

var _ Codec = Raw{}

func (Raw) Marshal(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		return nil, fmt.Errorf("raw codec: unsupported type %T", v)
	}
}

func (Raw) Unmarshal(b []byte, v any) error {
	switch t := v.(type) {
	case *[]byte:
		// an empty payload still decodes to a non-nil slice
		if *t == nil {
			*t = make([]byte, 0, len(b))
		}
		*t = append((*t)[:0], b...)
	case *string:
		*t = string(b)
	default:
		return fmt.Errorf("raw codec: unsupported target %T", v)
	}
	return nil
}
