package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// Instance describes one Memos deployment the user connected, keyed by a
// local alias.
type Instance struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	APIKey string `json:"apiKey"`
}

/*
Store is the contract the tool layer needs from the instance registry.
Lookups are by alias; Upsert replaces an existing entry with the same alias.
*/
type Store interface {
	List(ctx context.Context) ([]Instance, error)
	Get(ctx context.Context, name string) (Instance, bool, error)
	Upsert(ctx context.Context, instance Instance) error
	Remove(ctx context.Context, name string) (bool, error)
	Path() string
}

type document struct {
	Instances []Instance `json:"instances"`
}

/*
FileStore persists instances as a single JSON document. The file is read on
every call and nothing is cached, so edits made by hand are picked up
immediately. Writers inside this process are serialized by a mutex shared
by every FileStore; separate processes writing the same file can still
overwrite each other (last writer wins).
*/
type FileStore struct {
	path string
}

// fileMu serializes read-modify-write cycles on the registry file.
var fileMu sync.Mutex

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is ~/.config/memos-mcp/instances.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", "memos-mcp", "instances.json"), nil
}

func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) List(ctx context.Context) ([]Instance, error) {
	doc, err := store.load()
	if err != nil {
		return nil, err
	}

	return doc.Instances, nil
}

func (store *FileStore) Get(ctx context.Context, name string) (Instance, bool, error) {
	doc, err := store.load()
	if err != nil {
		return Instance{}, false, err
	}

	for _, instance := range doc.Instances {
		if instance.Name == name {
			return instance, true, nil
		}
	}

	return Instance{}, false, nil
}

func (store *FileStore) Upsert(ctx context.Context, instance Instance) error {
	fileMu.Lock()
	defer fileMu.Unlock()

	doc, err := store.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Instances {
		if doc.Instances[i].Name == instance.Name {
			doc.Instances[i] = instance
			replaced = true
			break
		}
	}

	if !replaced {
		doc.Instances = append(doc.Instances, instance)
	}

	log.Info("saving instance", "name", instance.Name, "host", instance.Host, "replaced", replaced)
	return store.save(doc)
}

func (store *FileStore) Remove(ctx context.Context, name string) (bool, error) {
	fileMu.Lock()
	defer fileMu.Unlock()

	doc, err := store.load()
	if err != nil {
		return false, err
	}

	kept := doc.Instances[:0]
	for _, instance := range doc.Instances {
		if instance.Name != name {
			kept = append(kept, instance)
		}
	}

	if len(kept) == len(doc.Instances) {
		return false, nil
	}

	doc.Instances = kept

	log.Info("removing instance", "name", name)
	return true, store.save(doc)
}

func (store *FileStore) load() (document, error) {
	doc := document{Instances: []Instance{}}

	buf, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read instance registry %s: %w", store.path, err)
	}

	if err := json.Unmarshal(buf, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse instance registry %s: %w", store.path, err)
	}

	if doc.Instances == nil {
		doc.Instances = []Instance{}
	}

	return doc, nil
}

/*
save replaces the registry file atomically: the document is written to a
temporary file in the same directory and renamed over the old one, so a
concurrent reader sees either the previous or the new document in full.
*/
func (store *FileStore) save(doc document) error {
	dir := filepath.Dir(store.path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode instance registry: %w", err)
	}

	// CreateTemp opens with 0600; the file holds API keys.
	tmp, err := os.CreateTemp(dir, ".instances-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary registry file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write instance registry %s: %w", store.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write instance registry %s: %w", store.path, err)
	}

	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return fmt.Errorf("failed to replace instance registry %s: %w", store.path, err)
	}

	return nil
}

/*
MemoryStore keeps instances in process memory. It backs tests and callers
that do not want a file on disk.
*/
type MemoryStore struct {
	mu        sync.RWMutex
	instances []Instance
}

func NewMemoryStore(instances ...Instance) *MemoryStore {
	return &MemoryStore{instances: append([]Instance{}, instances...)}
}

func (store *MemoryStore) Path() string {
	return ":memory:"
}

func (store *MemoryStore) List(ctx context.Context) ([]Instance, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return append([]Instance{}, store.instances...), nil
}

func (store *MemoryStore) Get(ctx context.Context, name string) (Instance, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, instance := range store.instances {
		if instance.Name == name {
			return instance, true, nil
		}
	}

	return Instance{}, false, nil
}

func (store *MemoryStore) Upsert(ctx context.Context, instance Instance) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.instances {
		if store.instances[i].Name == instance.Name {
			store.instances[i] = instance
			return nil
		}
	}

	store.instances = append(store.instances, instance)
	return nil
}

func (store *MemoryStore) Remove(ctx context.Context, name string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.instances {
		if store.instances[i].Name == name {
			store.instances = append(store.instances[:i], store.instances[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}
