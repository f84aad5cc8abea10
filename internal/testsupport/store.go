package testsupport

import (
	"testing"

	"subgen/internal/config"
	"subgen/internal/store"
)

// MustOpenStore opens the record store configured in cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
