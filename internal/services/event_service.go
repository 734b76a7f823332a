package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

var (
	ErrEventNotFavorited  = errors.New("event not on favorites list")
	ErrAlreadyFavorited   = errors.New("event already favorited")
	ErrFavoritesCorrupted = errors.New("favorites document unreadable")
)

const favoritesCollection = "favoriteEvents"

// EventService manages each user's favorite-events list, persisted as one
// document per user in the document store. Mutations are read-modify-write,
// serialized by a service-level lock.
type EventService struct {
	mu   sync.Mutex
	docs store.DocumentStore
}

func NewEventService(docs store.DocumentStore) *EventService {
	return &EventService{docs: docs}
}

func favoritesPath(userID string) string {
	return favoritesCollection + "/" + userID
}

func (s *EventService) loadFavorites(ctx context.Context, userID string) ([]models.FavoriteEvent, error) {
	snap, err := s.docs.Get(ctx, favoritesPath(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Round-trip through JSON to decode the stored array into typed entries.
	raw, ok := snap.Data["events"]
	if !ok {
		return nil, nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, ErrFavoritesCorrupted
	}
	var favorites []models.FavoriteEvent
	if err := json.Unmarshal(buf, &favorites); err != nil {
		return nil, ErrFavoritesCorrupted
	}
	return favorites, nil
}

func (s *EventService) saveFavorites(ctx context.Context, userID string, favorites []models.FavoriteEvent) error {
	buf, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	var raw []interface{}
	if err := json.Unmarshal(buf, &raw); err != nil {
		return err
	}
	return s.docs.Set(ctx, favoritesPath(userID), map[string]interface{}{"events": raw})
}

// ListFavorites returns the user's saved events, newest first.
func (s *EventService) ListFavorites(ctx context.Context, userID string) ([]models.FavoriteEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.loadFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})
	return favorites, nil
}

// AddFavorite saves an event to the user's list.
func (s *EventService) AddFavorite(ctx context.Context, userID string, event models.EventInfo) (*models.FavoriteEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.loadFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, fav := range favorites {
		if fav.Event.ID == event.ID {
			return nil, ErrAlreadyFavorited
		}
	}

	favorite := models.FavoriteEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Event:     event,
		CreatedAt: time.Now().UTC(),
	}
	favorites = append(favorites, favorite)

	if err := s.saveFavorites(ctx, userID, favorites); err != nil {
		return nil, err
	}
	return &favorite, nil
}

// RemoveFavorite drops an event from the user's list.
func (s *EventService) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.loadFavorites(ctx, userID)
	if err != nil {
		return err
	}

	kept := favorites[:0]
	found := false
	for _, fav := range favorites {
		if fav.Event.ID == eventID {
			found = true
			continue
		}
		kept = append(kept, fav)
	}
	if !found {
		return ErrEventNotFavorited
	}

	return s.saveFavorites(ctx, userID, kept)
}
