package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto.Message values.
//
// Unmarshal accepts either a message (*mypb.User) or a pointer to a message
// pointer (**mypb.User); the latter is what a memoized func returning
// *mypb.User hands to the cache, and a fresh message is allocated for it.
type Protobuf struct{}

var _ Codec = Protobuf{}

func (Protobuf) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protobuf codec: %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (Protobuf) Unmarshal(b []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(b, m)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Pointer {
		fresh := reflect.New(rv.Elem().Type().Elem())
		if m, ok := fresh.Interface().(proto.Message); ok {
			if err := proto.Unmarshal(b, m); err != nil {
				return err
			}
			rv.Elem().Set(fresh)
			return nil
		}
	}
	return fmt.Errorf("protobuf codec: cannot decode into %T", v)
}
