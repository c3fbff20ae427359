package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

// FileProvider serves the catalog loaded from a YAML file and can follow edits to it.
// Engines keep the snapshot they were built from; callers rebuild them on change.
type FileProvider struct {
	path    string
	current atomic.Pointer[Catalog]
	logger  *slog.Logger
}

var _ ports.CatalogProvider = (*FileProvider)(nil)

// ProviderOption configures a FileProvider.
type ProviderOption func(*FileProvider)

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *FileProvider) {
		p.logger = logger
	}
}

// NewFileProvider loads path eagerly. An invalid file is an error.
func NewFileProvider(path string, opts ...ProviderOption) (*FileProvider, error) {
	p := &FileProvider{path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	p.current.Store(c)
	return p, nil
}

// Snapshot returns the catalog currently in effect.
func (p *FileProvider) Snapshot() *Catalog { return p.current.Load() }

// Reload re-reads the file. On failure the previous catalog stays in effect.
func (p *FileProvider) Reload() (*Catalog, error) {
	c, err := LoadFile(p.path)
	if err != nil {
		return nil, err
	}
	p.current.Store(c)
	return c, nil
}

// Watch follows the catalog file until ctx is done, calling onChange after every
// successful reload. Editors that replace the file are handled by watching its directory.
func (p *FileProvider) Watch(ctx context.Context, onChange func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(p.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	p.logger.Info("watching catalog", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			c, err := p.Reload()
			if err != nil {
				p.logger.Warn("catalog reload rejected", "path", target, "err", err)
				continue
			}
			p.logger.Info("catalog reloaded", "path", target)
			if onChange != nil {
				onChange(c)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("catalog watcher error", "err", err)
		}
	}
}

func (p *FileProvider) Activities() []domain.Activity { return p.Snapshot().Activities() }
func (p *FileProvider) Communities() []domain.Community { return p.Snapshot().Communities() }
func (p *FileProvider) People() []domain.Person { return p.Snapshot().People() }
func (p *FileProvider) Users() []domain.UserRecord { return p.Snapshot().Users() }

func (p *FileProvider) NotificationTemplates() map[string][]string {
	return p.Snapshot().NotificationTemplates()
}
