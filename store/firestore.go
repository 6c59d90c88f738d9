package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is a Firestore-backed implementation of DocumentStore.
// Documents live in one collection keyed by escaped name; the session state
// is a single document in a second collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	sessions   string
	sessionID  string
}

// NewFirestoreStore creates a new FirestoreStore using the given Firestore
// client. An empty collection means "documents".
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = "documents"
	}
	return &FirestoreStore{
		client:     client,
		collection: collection,
		sessions:   "sessions",
		sessionID:  "default",
	}
}

// Firestore document ids may not contain '/'.
func docID(name string) string {
	return url.PathEscape(name)
}

func (s *FirestoreStore) docRef(name string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(docID(name))
}

func (s *FirestoreStore) stateRef() *firestore.DocumentRef {
	return s.client.Collection(s.sessions).Doc(s.sessionID)
}

func (s *FirestoreStore) Get(ctx context.Context, name string) (*DocumentInfo, error) {
	snap, err := s.docRef(name).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return snapshotToDocInfo(snap), nil
}

func snapshotToDocInfo(snap *firestore.DocumentSnapshot) *DocumentInfo {
	data := snap.Data()
	name, _ := data["name"].(string)
	if name == "" {
		name, _ = url.PathUnescape(snap.Ref.ID)
	}
	content, _ := data["content"].(string)
	updatedAt, _ := data["updatedAt"].(time.Time)
	return &DocumentInfo{
		Name:      name,
		Content:   content,
		UpdatedAt: updatedAt,
	}
}

func (s *FirestoreStore) Put(ctx context.Context, name, content string) error {
	_, err := s.docRef(name).Set(ctx, map[string]interface{}{
		"name":      name,
		"content":   content,
		"updatedAt": time.Now(),
	})
	return err
}

func (s *FirestoreStore) List(ctx context.Context) ([]DocumentInfo, error) {
	iter := s.client.Collection(s.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []DocumentInfo
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		result = append(result, *snapshotToDocInfo(snap))
	}
	return result, nil
}

func (s *FirestoreStore) LoadState(ctx context.Context) (*SessionState, error) {
	snap, err := s.stateRef().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("session state: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var st SessionState
	if err := snap.DataTo(&st); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &st, nil
}

func (s *FirestoreStore) SaveState(ctx context.Context, state SessionState) error {
	_, err := s.stateRef().Set(ctx, state)
	return err
}
