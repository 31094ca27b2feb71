// Package memocache memoizes function results in a remote key-value store
// (Redis by default) and lets callers bust them per call, per function, or
// for the whole namespace.
//
// Components:
//   - store.Store: byte store with TTL, bulk delete and prefix listing
//     (store/redis, store/bigcache, store/ristretto).
//   - codec.Codec: (de)serializes values <-> []byte. Msgpack by default.
//   - Engine: prefixing, the enable switch and failure containment. Store
//     and codec errors are logged and reported to Hooks, never returned:
//     reads degrade to a miss and Set to false.
//   - Memoized[A, R]: a wrapped func plus Bust, BustAll and MakeKey.
//
// Keys:
//
//	<prefix>:<name>:<md5(args)>   - memoized calls
//	<prefix>:<key>                - direct Get/Set
//
// nil results are never cached, so a func that legitimately returns nil is
// called every time. Neither are calls whose arguments hold structs with
// unexported or "-"-tagged fields: the hash cannot tell such values apart,
// so those calls run uncached (supply WithKeyFunc to cache them).
//
// Usage:
//
//	eng, err := memocache.Init(ctx, memocache.Config{
//	    Prefix: "billing",
//	    Redis:  redisstore.ConnConfig{Host: "localhost", Port: 6379},
//	})
//	defer eng.Close(ctx)
//
//	add := memocache.Memoize(eng, "mathx:add",
//	    func(ctx context.Context, a pair) (int, error) { return a.X + a.Y, nil },
//	    memocache.WithTTL(memocache.Minute))
//
//	v, _ := add.Call(ctx, pair{3, 4}) // computed
//	v, _ = add.Call(ctx, pair{3, 4})  // cached
//	add.Bust(ctx, pair{3, 4})
//	add.BustAll(ctx)
package memocache
