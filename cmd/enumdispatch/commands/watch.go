package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// fileWatcher reports changes of a single file.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
}

// newFileWatcher starts watching path. The directory is watched rather than
// the file so editors that save by renaming are noticed.
func newFileWatcher(path string, logger zerolog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	return &fileWatcher{path: path, watcher: watcher, logger: logger}, nil
}

// Run calls onChange after every write or re-creation of the file until ctx
// is done. Watcher errors are logged and do not stop the loop.
func (w *fileWatcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	filename := filepath.Base(w.path)
	w.logger.Info().Str("path", w.path).Msg("watching declaration file for changes")
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("declaration file changed")
				onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}
