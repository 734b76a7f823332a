package services

import (
	"context"
	"errors"
	"testing"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

func newEventService(t *testing.T) *EventService {
	t.Helper()
	docs, err := store.NewFileStore(t.TempDir(), "docs.json")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return NewEventService(docs)
}

func sampleEvent(id string) models.EventInfo {
	return models.EventInfo{
		ID:    id,
		Name:  "Concert " + id,
		Venue: "The Venue",
		Date:  "2026-09-01",
	}
}

func TestEventServiceAddAndList(t *testing.T) {
	s := newEventService(t)
	ctx := context.Background()

	fav, err := s.AddFavorite(ctx, "u1", sampleEvent("e1"))
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if fav.ID == "" {
		t.Error("favorite should get a generated id")
	}
	if fav.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", fav.UserID)
	}

	favorites, err := s.ListFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].Event.ID != "e1" {
		t.Errorf("unexpected favorites list: %+v", favorites)
	}
}

func TestEventServiceListEmptyUser(t *testing.T) {
	s := newEventService(t)

	favorites, err := s.ListFavorites(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("got %d favorites for fresh user, want 0", len(favorites))
	}
}

func TestEventServiceRejectsDuplicate(t *testing.T) {
	s := newEventService(t)
	ctx := context.Background()

	if _, err := s.AddFavorite(ctx, "u1", sampleEvent("e1")); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := s.AddFavorite(ctx, "u1", sampleEvent("e1")); !errors.Is(err, ErrAlreadyFavorited) {
		t.Errorf("duplicate AddFavorite = %v, want ErrAlreadyFavorited", err)
	}
}

func TestEventServiceRemove(t *testing.T) {
	s := newEventService(t)
	ctx := context.Background()

	if _, err := s.AddFavorite(ctx, "u1", sampleEvent("e1")); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := s.AddFavorite(ctx, "u1", sampleEvent("e2")); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	if err := s.RemoveFavorite(ctx, "u1", "e1"); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	favorites, _ := s.ListFavorites(ctx, "u1")
	if len(favorites) != 1 || favorites[0].Event.ID != "e2" {
		t.Errorf("favorites after remove = %+v, want only e2", favorites)
	}

	if err := s.RemoveFavorite(ctx, "u1", "e1"); !errors.Is(err, ErrEventNotFavorited) {
		t.Errorf("removing absent event = %v, want ErrEventNotFavorited", err)
	}
}

func TestEventServiceFavoritesArePerUser(t *testing.T) {
	s := newEventService(t)
	ctx := context.Background()

	if _, err := s.AddFavorite(ctx, "u1", sampleEvent("e1")); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	favorites, err := s.ListFavorites(ctx, "u2")
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("u2 sees %d favorites, want 0", len(favorites))
	}
}
