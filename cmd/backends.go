package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kozaktomas/photo-shortcode/internal/clipboard"
	"github.com/kozaktomas/photo-shortcode/internal/config"
	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
)

// openSettingsStore opens the settings backend selected in cfg. The returned
// function releases it.
func openSettingsStore(ctx context.Context, cfg *config.Config) (*settings.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Settings.Backend {
	case config.BackendFile:
		return settings.NewStore(settings.NewFileKV(cfg.Settings.Path)), noop, nil
	case config.BackendSQLite, config.BackendPostgres, config.BackendMySQL:
		dialect, err := settings.ParseDialect(cfg.Settings.Backend)
		if err != nil {
			return nil, nil, err
		}
		dsn := cfg.Database.URL
		if dialect == settings.SQLite {
			dsn = cfg.Settings.Path
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, nil, fmt.Errorf("could not create settings directory: %w", err)
			}
		}
		kv, err := settings.OpenSQL(ctx, settings.PoolConfig{
			Dialect:      dialect,
			DSN:          dsn,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s settings store: %w", cfg.Settings.Backend, err)
		}
		return settings.NewStore(kv), kv.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q (expected file, sqlite, postgres or mysql)", cfg.Settings.Backend)
	}
}

// newNotifier returns the toast sink for the configured notification mode.
func newNotifier(cfg *config.Config, out io.Writer) (notify.Notifier, error) {
	switch cfg.Notify.Mode {
	case config.NotifyTerminal:
		return notify.NewTerminal(out, false), nil
	case config.NotifyDesktop:
		return notify.NewDesktop(), nil
	case config.NotifyNone:
		return notify.Discard, nil
	default:
		return nil, fmt.Errorf("unknown notification mode %q (expected terminal, desktop or none)", cfg.Notify.Mode)
	}
}

// hostClipboard returns the system clipboard, or nil when no clipboard
// utility is installed.
func hostClipboard() clipboard.Writer {
	sys := clipboard.System{}
	if !sys.Available() {
		return nil
	}
	return sys
}
