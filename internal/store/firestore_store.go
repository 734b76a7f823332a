package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore backs DocumentStore with Cloud Firestore. Watch bridges the
// native snapshot iterator onto a channel so callers get the same ordered,
// cancellable stream the mobile clients see.
type FirestoreStore struct {
	client *firestore.Client
}

// FirestoreConfig carries the credentials for the Firebase project. Exactly
// one of CredentialsJSON or CredentialsFile should be set; when both are
// empty, application default credentials are used.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsJSON string
	CredentialsFile string
}

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: init app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: init client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) Get(ctx context.Context, path string) (Snapshot, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Snapshot{Path: path}, ErrNotFound
		}
		return Snapshot{Path: path}, err
	}
	return Snapshot{Path: path, Exists: true, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	_, err := s.client.Doc(path).Set(ctx, data)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Doc(path).Update(ctx, updates)
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	_, err := s.client.Doc(path).Delete(ctx)
	return err
}

func (s *FirestoreStore) Watch(ctx context.Context, path string) (Watcher, error) {
	wctx, cancel := context.WithCancel(ctx)
	w := &firestoreWatcher{
		cancel: cancel,
		ch:     make(chan Snapshot, 16),
	}

	it := s.client.Doc(path).Snapshots(wctx)
	go func() {
		defer close(w.ch)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					w.err = err
				}
				return
			}
			out := Snapshot{Path: path, Exists: snap.Exists()}
			if out.Exists {
				out.Data = snap.Data()
			}
			select {
			case w.ch <- out:
			case <-wctx.Done():
				return
			}
		}
	}()

	return w, nil
}

type firestoreWatcher struct {
	cancel context.CancelFunc
	ch     chan Snapshot
	err    error
}

func (w *firestoreWatcher) Snapshots() <-chan Snapshot { return w.ch }
func (w *firestoreWatcher) Err() error                 { return w.err }
func (w *firestoreWatcher) Stop()                      { w.cancel() }
