package codec

import "encoding/json"

// JSON is handy when other services read the cached payloads.
// Numbers decoded into an interface become float64.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (JSON) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
