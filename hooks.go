package memocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The engine calls them on hot paths.
type Hooks interface {
	// A read found a usable value.
	Hit(storageKey string)

	// A read found nothing usable (absent, nil, or undecodable).
	Miss(storageKey string)

	// A store call failed and was contained.
	// op ∈ {"get", "set", "delete", "keys", "close"}
	StoreError(op, storageKey string, err error)

	// A value could not be encoded; Set returned false.
	EncodeError(storageKey, typeName string, err error)

	// Bust was refused because no prefix is configured and force was not set.
	BustRefused()
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                        {}
func (NopHooks) Miss(string)                       {}
func (NopHooks) StoreError(string, string, error)  {}
func (NopHooks) EncodeError(string, string, error) {}
func (NopHooks) BustRefused()                      {}
