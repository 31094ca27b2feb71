package codec

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type address struct {
	Street string
	Zip    string
}

type profile struct {
	ID      int64
	Name    string
	Tags    []string
	Scores  map[string]int
	Home    *address
	Created time.Time
}

func sampleProfile() profile {
	return profile{
		ID:      42,
		Name:    "Ada",
		Tags:    []string{"admin", "ops"},
		Scores:  map[string]int{"a": 1, "b": 2},
		Home:    &address{Street: "Main", Zip: "00100"},
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStructuredRoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"msgpack":  Msgpack{},
		"cbor":     MustCBOR(false),
		"cbor-det": MustCBOR(true),
		"json":     JSON{},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			in := sampleProfile()
			b, err := c.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var out profile
			if err := c.Unmarshal(b, &out); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !out.Created.Equal(in.Created) {
				t.Fatalf("time mismatch: got %v want %v", out.Created, in.Created)
			}
			out.Created = in.Created
			if !reflect.DeepEqual(out, in) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
			}
		})
	}
}

func TestPrimitiveAndNestedRoundTrip(t *testing.T) {
	c := Msgpack{}
	cases := []any{
		7,
		"puppetutes",
		true,
		3.5,
		[]int{1, 2, 3},
		map[string][]string{"x": {"y", "z"}},
		[][]int{{1}, {2, 3}},
	}
	for _, in := range cases {
		b, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", in, err)
		}
		out := reflect.New(reflect.TypeOf(in))
		if err := c.Unmarshal(b, out.Interface()); err != nil {
			t.Fatalf("Unmarshal(%v): %v", in, err)
		}
		if !reflect.DeepEqual(out.Elem().Interface(), in) {
			t.Fatalf("got %v want %v", out.Elem().Interface(), in)
		}
	}
}

func TestMsgpackNilDecodesToNil(t *testing.T) {
	b, err := Msgpack{}.Marshal(nil)
	if err != nil {
		t.Fatal(err)
	}
	var p *profile
	if err := (Msgpack{}).Unmarshal(b, &p); err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatalf("expected nil pointer, got %+v", p)
	}
}

func TestMsgpackRejectsUnencodable(t *testing.T) {
	if _, err := (Msgpack{}).Marshal(make(chan int)); err == nil {
		t.Fatalf("expected error marshaling a channel")
	}
}

func TestProtobufMessageAndPointerTargets(t *testing.T) {
	c := Protobuf{}
	in := wrapperspb.String("pompatus")
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	direct := &wrapperspb.StringValue{}
	if err := c.Unmarshal(b, direct); err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(direct, in) {
		t.Fatalf("got %v want %v", direct, in)
	}

	var viaPtr *wrapperspb.StringValue
	if err := c.Unmarshal(b, &viaPtr); err != nil {
		t.Fatal(err)
	}
	if viaPtr == nil || viaPtr.GetValue() != "pompatus" {
		t.Fatalf("got %v", viaPtr)
	}
}

func TestProtobufRejectsNonMessages(t *testing.T) {
	c := Protobuf{}
	if _, err := c.Marshal(12); err == nil {
		t.Fatalf("expected error for non-message")
	}
	var n int
	if err := c.Unmarshal([]byte{}, &n); err == nil {
		t.Fatalf("expected error for non-message target")
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	c := Limit{Inner: Msgpack{}, MaxDecode: 8}
	b, err := c.Marshal(strings.Repeat("x", 64))
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := c.Unmarshal(b, &s); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size error, got %v", err)
	}

	small, _ := c.Marshal("ok")
	if err := c.Unmarshal(small, &s); err != nil || s != "ok" {
		t.Fatalf("small payload: s=%q err=%v", s, err)
	}
}

func TestRawBytesAndStrings(t *testing.T) {
	c := Raw{}
	b, err := c.Marshal("hello")
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := c.Unmarshal(b, &s); err != nil || s != "hello" {
		t.Fatalf("s=%q err=%v", s, err)
	}
	var bb []byte
	if err := c.Unmarshal([]byte{1, 2}, &bb); err != nil || !reflect.DeepEqual(bb, []byte{1, 2}) {
		t.Fatalf("bb=%v err=%v", bb, err)
	}
	if _, err := c.Marshal(3); err == nil {
		t.Fatalf("expected error for int")
	}
}

func TestRawEmptyPayloadIsNotNil(t *testing.T) {
	var bb []byte
	if err := (Raw{}).Unmarshal([]byte{}, &bb); err != nil {
		t.Fatal(err)
	}
	if bb == nil || len(bb) != 0 {
		t.Fatalf("bb=%#v, want empty non-nil slice", bb)
	}
}
