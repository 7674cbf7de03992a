package savings

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// This file contains the durable key-value store backing the ledger: one
// JSON file per key under a data directory, plus change notifications when
// another process sharing the directory rewrites a key.

// Keys used by the tracker inside a store.
const (
	KeyGoals   = "goals"
	KeyRates   = "rates"
	KeyVersion = "version"
)

// SchemaVersion tags the stored payloads. Data written under a different
// version is ignored on startup: there is no migration logic, starting empty
// is preferred over corrupting data.
const SchemaVersion = 1

// Store persists namespaced JSON payloads under a directory, one file per
// key. Writes are atomic (temp file then rename) so a concurrent reader
// never observes a half-written payload.
type Store struct {
	dir string
}

// OpenStore opens (creating if needed) a store at the given directory.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot open store at %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read returns the payload stored under key. The error wraps fs.ErrNotExist
// when the key was never written.
func (s *Store) Read(key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Remove deletes the payload stored under key. Removing a key that was never
// written is not an error.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Write atomically replaces the payload stored under key.
func (s *Store) Write(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// Watch delivers the key name whenever a file of the store changes, until
// the done channel is closed. Notifications triggered by this process's own
// writes are delivered too; appliers must tolerate replacing state with an
// identical copy.
func (s *Store) Watch(done <-chan struct{}, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				if !strings.HasSuffix(name, ".json") {
					continue // temp files from atomic writes
				}
				onChange(strings.TrimSuffix(name, ".json"))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("store watch error (ignored): %v", err)
			case <-done:
				return
			}
		}
	}()
	return nil
}
