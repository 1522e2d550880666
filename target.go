package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/relay-run/relay/internal/store"
)

// Target is a persisted task output. Existence of the target is the
// completion check: a task whose target exists is never re-run unless it
// is forced or invalidated.
type Target interface {
	// Exists reports whether the artifact has been written.
	Exists(ctx context.Context) (bool, error)

	// Remove deletes the artifact, marking the task incomplete. Removing
	// a missing artifact is not an error.
	Remove(ctx context.Context) error

	// Path identifies the artifact's location. For in-memory targets the
	// path is informational only.
	Path() string
}

// artifact is the shared base for task-scoped file targets. The path is
// derived from the owning task on every call, so changing the data
// directory redirects existing targets.
type artifact struct {
	owner Task
	name  string
	ext   string
}

func newArtifact(owner Task, name, ext string) artifact {
	if name == "" {
		name = "data"
	}
	return artifact{owner: owner, name: name, ext: ext}
}

func (a artifact) Path() string {
	return workspace().ArtifactPath(FamilyOf(a.owner), IDOf(a.owner), a.name+"."+a.ext)
}

func (a artifact) Exists(ctx context.Context) (bool, error) {
	return store.Exists(a.Path())
}

func (a artifact) Remove(ctx context.Context) error {
	return store.RemoveFile(a.Path())
}

func (a artifact) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path())
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", a.Path(), err)
	}
	return data, nil
}

func (a artifact) write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.WriteFileAtomic(a.Path(), data); err != nil {
		return fmt.Errorf("writing artifact %s: %w", a.Path(), err)
	}
	return nil
}

// FileTarget is a raw file at an explicit path, outside the managed
// workspace layout. Useful for source files a flow consumes or exports.
type FileTarget struct {
	path string
}

// NewFileTarget returns a target for the file at path.
func NewFileTarget(path string) *FileTarget {
	return &FileTarget{path: path}
}

func (t *FileTarget) Path() string { return t.path }

func (t *FileTarget) Exists(ctx context.Context) (bool, error) {
	return store.Exists(t.path)
}

func (t *FileTarget) Remove(ctx context.Context) error {
	return store.RemoveFile(t.path)
}

// Save writes raw bytes atomically.
func (t *FileTarget) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.WriteFileAtomic(t.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", t.path, err)
	}
	return nil
}

// Load reads the file's bytes.
func (t *FileTarget) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", t.path, err)
	}
	return data, nil
}

// memStore backs all MemoryTargets in the process, keyed by task id and
// target name so that equal task instances observe each other's writes.
var memStore = struct {
	sync.RWMutex
	data map[string][]byte
}{data: make(map[string][]byte)}

// MemoryTarget keeps a task output in process memory. Completion does not
// survive restarts; it exists for tests and cheap intermediate results.
type MemoryTarget struct {
	owner Task
	name  string
}

// NewMemoryTarget returns an in-memory target scoped to the owning task's
// id.
func NewMemoryTarget(owner Task, name string) *MemoryTarget {
	if name == "" {
		name = "data"
	}
	return &MemoryTarget{owner: owner, name: name}
}

func (t *MemoryTarget) key() string {
	return IDOf(t.owner) + "/" + t.name
}

func (t *MemoryTarget) Path() string {
	return "memory://" + FamilyOf(t.owner) + "/" + t.key()
}

func (t *MemoryTarget) Exists(ctx context.Context) (bool, error) {
	memStore.RLock()
	defer memStore.RUnlock()
	_, ok := memStore.data[t.key()]
	return ok, nil
}

func (t *MemoryTarget) Remove(ctx context.Context) error {
	memStore.Lock()
	defer memStore.Unlock()
	delete(memStore.data, t.key())
	return nil
}

// Save stores the value. Values round-trip through JSON so Load gets a
// copy, not a shared reference.
func (t *MemoryTarget) Save(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding in-memory artifact %s: %w", t.name, err)
	}
	memStore.Lock()
	defer memStore.Unlock()
	memStore.data[t.key()] = data
	return nil
}

// Load fills out with the stored value.
func (t *MemoryTarget) Load(ctx context.Context, out any) error {
	memStore.RLock()
	data, ok := memStore.data[t.key()]
	memStore.RUnlock()
	if !ok {
		return fmt.Errorf("in-memory artifact %s: %w", t.key(), os.ErrNotExist)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding in-memory artifact %s: %w", t.name, err)
	}
	return nil
}

// ClearMemoryTargets drops every in-memory artifact in the process.
func ClearMemoryTargets() {
	memStore.Lock()
	defer memStore.Unlock()
	memStore.data = make(map[string][]byte)
}
