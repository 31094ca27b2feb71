package memocache_test

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/memocache"
	"github.com/unkn0wn-root/memocache/store/storetest"
)

func ExampleMemoize() {
	ctx := context.Background()
	eng := memocache.New(memocache.Options{Store: storetest.NewMemory(), Prefix: "example"})
	defer eng.Close(ctx)

	add := memocache.Memoize(eng, "mathx:add", func(_ context.Context, p pair) (int, error) {
		fmt.Println("computing", p.X, "+", p.Y)
		return p.X + p.Y, nil
	}, memocache.WithTTL(memocache.Minute))

	v, _ := add.Call(ctx, pair{3, 4})
	fmt.Println(v)
	v, _ = add.Call(ctx, pair{3, 4})
	fmt.Println(v)

	add.Bust(ctx, pair{3, 4})
	v, _ = add.Call(ctx, pair{3, 4})
	fmt.Println(v)
	// Output:
	// computing 3 + 4
	// 7
	// 7
	// computing 3 + 4
	// 7
}

func ExampleEngine_Bust() {
	ctx := context.Background()
	eng := memocache.New(memocache.Options{Store: storetest.NewMemory()})

	eng.Set(ctx, "greeting", "hello", memocache.Hour)
	fmt.Println(eng.Bust(ctx, false)) // no prefix: refused
	fmt.Println(eng.Bust(ctx, true))
	// Output:
	// 0
	// 1
}
