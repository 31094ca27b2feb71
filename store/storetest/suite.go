package storetest

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/unkn0wn-root/memocache/store"
)

// Run exercises the store.Store contract against stores built by newStore.
// Each subtest gets a fresh store. TTL expiry is backend specific and left
// to the backend's own tests.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		s := newStore(t)
		if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
			t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
		}
		if ok, err := s.Set(ctx, "k", []byte("v"), 0); err != nil || !ok {
			t.Fatalf("Set: ok=%v err=%v", ok, err)
		}
		got, ok, err := s.Get(ctx, "k")
		if err != nil || !ok || !bytes.Equal(got, []byte("v")) {
			t.Fatalf("Get after Set: got=%q ok=%v err=%v", got, ok, err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "k", "one")
		mustSet(t, s, "k", "two")
		got, _, _ := s.Get(ctx, "k")
		if string(got) != "two" {
			t.Fatalf("got %q want two", got)
		}
	})

	t.Run("DelCountsExisting", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "a", "1")
		mustSet(t, s, "b", "2")
		n, err := s.Del(ctx, "a", "b", "missing")
		if err != nil {
			t.Fatalf("Del: %v", err)
		}
		if n != 2 {
			t.Fatalf("Del removed %d, want 2", n)
		}
		if _, ok, _ := s.Get(ctx, "a"); ok {
			t.Fatalf("a still present after Del")
		}
	})

	t.Run("KeysByPrefix", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "app:add:1", "x")
		mustSet(t, s, "app:add:2", "x")
		mustSet(t, s, "app:mul:1", "x")
		mustSet(t, s, "other", "x")

		got, err := s.Keys(ctx, "app:add:")
		if err != nil {
			t.Fatalf("Keys: %v", err)
		}
		sort.Strings(got)
		if len(got) != 2 || got[0] != "app:add:1" || got[1] != "app:add:2" {
			t.Fatalf("Keys(app:add:) = %v", got)
		}

		all, err := s.Keys(ctx, "")
		if err != nil {
			t.Fatalf("Keys(\"\"): %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("Keys(\"\") = %v, want 4 keys", all)
		}
	})

	t.Run("KeysAfterDel", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "p:1", "x")
		mustSet(t, s, "p:2", "x")
		if _, err := s.Del(ctx, "p:1"); err != nil {
			t.Fatalf("Del: %v", err)
		}
		got, err := s.Keys(ctx, "p:")
		if err != nil {
			t.Fatalf("Keys: %v", err)
		}
		if len(got) != 1 || got[0] != "p:2" {
			t.Fatalf("Keys after Del = %v", got)
		}
	})
}

func mustSet(t *testing.T, s store.Store, k, v string) {
	t.Helper()
	ok, err := s.Set(context.Background(), k, []byte(v), 0)
	if err != nil || !ok {
		t.Fatalf("Set(%q): ok=%v err=%v", k, ok, err)
	}
}
