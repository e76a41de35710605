package config

// Config is the top-level structure for the demo CLI's config file: which
// backing store to open and, optionally, a set of key-value pairs to seed
// a fresh trie with on startup.
type Config struct {
	Store StoreConfig
	Seed  []SeedEntry
}

// StoreConfig selects and parameterizes the backing storage.Store.
type StoreConfig struct {
	// Backend is either "badger" (on-disk) or "memory" (ephemeral).
	Backend string
	// Path is the on-disk directory for the badger backend. Ignored for
	// memory.
	Path string
}

// SeedEntry is a single key-value pair applied to the trie before the CLI
// command runs, so a fresh store doesn't start empty.
type SeedEntry struct {
	Key   string
	Value string
}
