package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 500

// WatchConfig configures candidate file watching.
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before processing.
	DebounceDelay string `json:"debounce_delay" yaml:"debounce_delay"`

	// FileExtensions lists file extensions to watch.
	FileExtensions []string `json:"file_extensions" yaml:"file_extensions"`

	// ExcludeDirs lists directory names to skip.
	ExcludeDirs []string `json:"exclude_dirs" yaml:"exclude_dirs"`
}

// DefaultWatchConfig returns default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay:  "500ms",
		FileExtensions: []string{".yaml", ".yml", ".json"},
		ExcludeDirs:    []string{".git", "node_modules", "vendor"},
	}
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// WatchOperation indicates the type of file operation.
type WatchOperation string

// Watch operations.
const (
	WatchOpCreate WatchOperation = "create"
	WatchOpModify WatchOperation = "modify"
	WatchOpDelete WatchOperation = "delete"
)

// WatchEvent reports a changed candidate file.
type WatchEvent struct {
	// Path is the file path relative to the watched directory.
	Path string

	// AbsPath is the absolute file path.
	AbsPath string

	Operation WatchOperation
}

// Watcher watches a directory tree for candidate document changes. Changes
// are debounced, and files whose content hash did not change are not
// reported again.
type Watcher struct {
	config     WatchConfig
	dir        string
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent

	droppedEvents atomic.Int64
}

// NewWatcher creates a watcher for dir.
func NewWatcher(config WatchConfig, dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultWatchConfig()
	exts := config.FileExtensions
	if len(exts) == 0 {
		exts = defaults.FileExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	dirs := config.ExcludeDirs
	if len(dirs) == 0 {
		dirs = defaults.ExcludeDirs
	}
	excludes := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		excludes[d] = true
	}

	return &Watcher{
		config:     config,
		dir:        dir,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan WatchEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of watch events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start creates the directory if needed and begins watching it.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.addWatchesRecursive(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Candidate watcher started",
		"dir", w.dir,
		"debounce", w.config.GetDebounceDelay())
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// SetHash records the content hash of a file, relative to the watched
// directory, so an unchanged rewrite is not reported.
func (w *Watcher) SetHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

// GetHash returns the recorded hash for a file.
func (w *Watcher) GetHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	return w.excludes[base] || (strings.HasPrefix(base, ".") && base != ".")
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.GetDebounceDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.skipDir(path) {
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	relPath, _ := filepath.Rel(w.dir, path)
	for _, part := range strings.Split(filepath.Dir(relPath), string(filepath.Separator)) {
		if w.excludes[part] {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Candidate change detected", "path", relPath, "op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		if ctx.Err() != nil {
			return
		}

		relPath, _ := filepath.Rel(w.dir, path)
		event := WatchEvent{Path: relPath, AbsPath: path}

		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			w.hashMu.Lock()
			delete(w.hashes, relPath)
			w.hashMu.Unlock()
			event.Operation = WatchOpDelete
			w.sendEvent(event)
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read file for hash check", "path", relPath, "error", err)
			continue
		}

		newHash := ContentHash(content)
		oldHash, hadHash := w.GetHash(relPath)
		if hadHash && oldHash == newHash {
			continue
		}
		w.SetHash(relPath, newHash)

		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = WatchOpCreate
		} else {
			event.Operation = WatchOpModify
		}
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "path", event.Path, "op", event.Operation)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}
