package sheets

import (
	"context"
	"fmt"

	"github.com/harari-inventory/apiserver/config"
)

// Open builds the backend selected by cfg. Local backends get every named
// sheet created so that reads never fail on a fresh file. The returned
// close func is never nil.
func Open(ctx context.Context, cfg config.StoreConfig, sheetNames ...string) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.StoreBackendSheets:
		g, err := NewGoogleSheets(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return g, noop, nil
	case config.StoreBackendXLSX:
		w, err := OpenWorkbook(cfg.XLSXPath)
		if err != nil {
			return nil, noop, err
		}
		for _, name := range sheetNames {
			if err := w.EnsureSheet(name); err != nil {
				_ = w.Close()
				return nil, noop, fmt.Errorf("ensure sheet %s: %w", name, err)
			}
		}
		return w, w.Close, nil
	case config.StoreBackendMemory:
		m := NewMemory("inventory")
		for _, name := range sheetNames {
			m.Seed(name, nil)
		}
		return m, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
