package keys

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"
)

func TestPrefixed(t *testing.T) {
	if got := Prefixed("", "k"); got != "k" {
		t.Fatalf("empty prefix: got %q", got)
	}
	if got := Prefixed("app", "k"); got != "app:k" {
		t.Fatalf("got %q", got)
	}
}

func TestPrefixedAllPreservesOrderAndInput(t *testing.T) {
	in := []string{"b", "a", "c"}
	got := PrefixedAll("p", in)
	want := []string{"p:b", "p:a", "p:c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if in[0] != "b" {
		t.Fatalf("input mutated: %v", in)
	}
	if got := PrefixedAll("", in); !reflect.DeepEqual(got, in) {
		t.Fatalf("empty prefix changed keys: %v", got)
	}
}

func TestFunctionAndCall(t *testing.T) {
	if got := Function("mathx:add"); got != "mathx:add:" {
		t.Fatalf("got %q", got)
	}
	if got := Call("mathx:add", "abc"); got != "mathx:add:abc" {
		t.Fatalf("got %q", got)
	}
}

func mustHash(t *testing.T, pos []any, named map[string]any) string {
	t.Helper()
	h, err := HashArgs(pos, named)
	if err != nil {
		t.Fatalf("HashArgs: %v", err)
	}
	return h
}

func TestHashArgsIsValueBased(t *testing.T) {
	a := mustHash(t, []any{3, 4}, nil)
	if len(a) != 32 {
		t.Fatalf("digest length %d, want 32", len(a))
	}
	if b := mustHash(t, []any{3, 4}, nil); a != b {
		t.Fatalf("equal args hashed differently: %s vs %s", a, b)
	}
	x, y := 3, 4
	if b := mustHash(t, []any{x, y}, nil); a != b {
		t.Fatalf("equal values from variables hashed differently")
	}
}

func TestHashArgsPositionalOrderMatters(t *testing.T) {
	if mustHash(t, []any{3, 4}, nil) == mustHash(t, []any{4, 3}, nil) {
		t.Fatalf("positional order should change the digest")
	}
	if mustHash(t, []any{3, 4}, nil) == mustHash(t, []any{3, 7}, nil) {
		t.Fatalf("distinct args collided")
	}
}

func TestHashArgsNamedOrderIgnored(t *testing.T) {
	m1 := map[string]any{}
	m1["x"] = 1
	m1["y"] = "two"
	m2 := map[string]any{"y": "two", "x": 1}
	if mustHash(t, nil, m1) != mustHash(t, nil, m2) {
		t.Fatalf("named args should be order-insensitive")
	}
	if mustHash(t, []any{1}, nil) == mustHash(t, nil, map[string]any{"x": 1}) {
		t.Fatalf("positional and named args must not collide")
	}
}

func TestHashArgsNilEqualsEmpty(t *testing.T) {
	if mustHash(t, nil, nil) != mustHash(t, []any{}, map[string]any{}) {
		t.Fatalf("nil and empty argument lists should hash the same")
	}
}

func TestHashArgsStructs(t *testing.T) {
	type q struct {
		User  string
		Limit int
	}
	if mustHash(t, []any{q{"a", 1}}, nil) != mustHash(t, []any{q{"a", 1}}, nil) {
		t.Fatalf("equal structs hashed differently")
	}
	if mustHash(t, []any{q{"a", 1}}, nil) == mustHash(t, []any{q{"a", 2}}, nil) {
		t.Fatalf("different structs collided")
	}
}

func TestHashArgsRejectsUnencodable(t *testing.T) {
	if _, err := HashArgs([]any{make(chan int)}, nil); err == nil {
		t.Fatalf("expected error for channel argument")
	}
}

type exportedPair struct{ X, Y int }

type lowerPair struct{ x, y int }

type mixedPair struct {
	X int
	y int
}

type cborSkip struct {
	X     int
	Trace string `cbor:"-"`
}

type jsonSkip struct {
	X     int
	Trace string `json:"-"`
}

type innerPair struct{ A, B int }

type outer struct {
	innerPair
}

type wrapped struct {
	Any any
}

func TestHashArgsDistinguishesValues(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	one, two := 1, 2
	cases := []struct {
		name string
		a, b any
	}{
		{"ints", 3, 7},
		{"strings", "a", "b"},
		{"exported struct", exportedPair{3, 4}, exportedPair{3, 7}},
		{"pointer to struct", &exportedPair{3, 4}, &exportedPair{3, 7}},
		{"pointer to int", &one, &two},
		{"nil vs zero pointer", (*exportedPair)(nil), &exportedPair{}},
		{"slice of structs", []exportedPair{{1, 2}}, []exportedPair{{1, 3}}},
		{"map values", map[string]int{"a": 1}, map[string]int{"a": 2}},
		{"interface field", wrapped{Any: 1}, wrapped{Any: "1"}},
		{"times within a second", t0, t0.Add(time.Millisecond)},
		{"big ints", big.NewInt(1), big.NewInt(2)},
		{"bytes", []byte{1}, []byte{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if mustHash(t, []any{tc.a}, nil) == mustHash(t, []any{tc.b}, nil) {
				t.Fatalf("%#v and %#v share a digest", tc.a, tc.b)
			}
		})
	}
}

func TestHashArgsPointerHashesLikeValue(t *testing.T) {
	v := exportedPair{3, 4}
	if mustHash(t, []any{v}, nil) != mustHash(t, []any{&v}, nil) {
		t.Fatalf("pointer and pointee should hash the same")
	}
}

func TestHashArgsRejectsAmbiguousArgs(t *testing.T) {
	cases := []struct {
		name  string
		pos   []any
		named map[string]any
	}{
		{"unexported fields", []any{lowerPair{3, 4}}, nil},
		{"some unexported fields", []any{mixedPair{X: 1}}, nil},
		{"pointer to unexported fields", []any{&lowerPair{3, 4}}, nil},
		{"cbor skip tag", []any{cborSkip{X: 1}}, nil},
		{"json skip tag", []any{jsonSkip{X: 1}}, nil},
		{"embedded unexported type", []any{outer{innerPair{1, 2}}}, nil},
		{"nested in slice", []any{[]lowerPair{{1, 2}}}, nil},
		{"nested in map", []any{map[string]lowerPair{"a": {1, 2}}}, nil},
		{"behind interface field", []any{wrapped{Any: lowerPair{1, 2}}}, nil},
		{"named argument", nil, map[string]any{"p": lowerPair{1, 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := HashArgs(tc.pos, tc.named)
			if !errors.Is(err, ErrAmbiguous) {
				t.Fatalf("err = %v, want ErrAmbiguous", err)
			}
		})
	}
}

func TestHashArgsAcceptsSelfEncodingTypes(t *testing.T) {
	now := time.Now()
	mustHash(t, []any{now, &now, big.NewInt(5), struct{ At time.Time }{now}}, nil)
}
