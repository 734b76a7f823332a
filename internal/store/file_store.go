package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a JSON-file-backed DocumentStore used for local development
// and tests. Writes go to a temp file first, then rename (atomic operation).
// Watch is served by an in-process hub that notifies subscribers in write
// order, mirroring the hosted store's live-snapshot behavior.
type FileStore struct {
	mu       sync.RWMutex
	filePath string
	docs     map[string]map[string]interface{}
	watchers map[string][]*fileWatcher
}

// NewFileStore creates (or reopens) a store persisted at dataDir/filename.
func NewFileStore(dataDir, filename string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &FileStore{
		filePath: filepath.Join(dataDir, filename),
		docs:     make(map[string]map[string]interface{}),
		watchers: make(map[string][]*fileWatcher),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, not an error
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(&s.docs)
}

// save persists the full document map. Caller must hold s.mu.
func (s *FileStore) save() error {
	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.docs); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}

func (s *FileStore) snapshotLocked(path string) Snapshot {
	doc, ok := s.docs[path]
	if !ok {
		return Snapshot{Path: path}
	}
	data := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		data[k] = v
	}
	return Snapshot{Path: path, Exists: true, Data: data}
}

func (s *FileStore) Get(ctx context.Context, path string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshotLocked(path)
	if !snap.Exists {
		return snap, ErrNotFound
	}
	return snap, nil
}

func (s *FileStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]interface{}, len(data))
	for k, v := range data {
		doc[k] = v
	}
	s.docs[path] = doc
	if err := s.save(); err != nil {
		return err
	}
	s.notifyLocked(path)
	return nil
}

func (s *FileStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	if err := s.save(); err != nil {
		return err
	}
	s.notifyLocked(path)
	return nil
}

func (s *FileStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, path)
	if err := s.save(); err != nil {
		return err
	}
	s.notifyLocked(path)
	return nil
}

// Watch registers a subscriber for path. The current snapshot is delivered
// first, then every subsequent write, in order.
func (s *FileStore) Watch(ctx context.Context, path string) (Watcher, error) {
	w := &fileWatcher{
		store: s,
		path:  path,
		ch:    make(chan Snapshot, 64),
	}

	s.mu.Lock()
	s.watchers[path] = append(s.watchers[path], w)
	w.deliver(s.snapshotLocked(path))
	s.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			w.Stop()
		}()
	}

	return w, nil
}

// notifyLocked fans the current snapshot out to subscribers. Caller must
// hold s.mu.
func (s *FileStore) notifyLocked(path string) {
	ws := s.watchers[path]
	if len(ws) == 0 {
		return
	}
	snap := s.snapshotLocked(path)
	for _, w := range ws {
		w.deliver(snap)
	}
}

func (s *FileStore) removeWatcher(w *fileWatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.watchers[w.path]
	for i, cand := range ws {
		if cand == w {
			s.watchers[w.path] = append(ws[:i], ws[i+1:]...)
			break
		}
	}
}

type fileWatcher struct {
	store *FileStore
	path  string
	ch    chan Snapshot

	once sync.Once
}

// deliver pushes a snapshot without ever blocking a writer. A full buffer
// sheds the oldest pending snapshot so the newest state still gets through.
func (w *fileWatcher) deliver(snap Snapshot) {
	for {
		select {
		case w.ch <- snap:
			return
		default:
		}
		select {
		case <-w.ch:
		default:
		}
	}
}

func (w *fileWatcher) Snapshots() <-chan Snapshot { return w.ch }
func (w *fileWatcher) Err() error                 { return nil }

func (w *fileWatcher) Stop() {
	w.once.Do(func() {
		w.store.removeWatcher(w)
		close(w.ch)
	})
}
