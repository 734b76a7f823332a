package models

import "time"

// EventInfo describes a concert or performance shown on the events screens.
type EventInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	Location string `json:"location"`
	Genre    string `json:"genre,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// FavoriteEvent is one saved event on a user's favorites list.
type FavoriteEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Event     EventInfo `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

type AddFavoriteEventRequest struct {
	Event EventInfo `json:"event"`
}

func (r *AddFavoriteEventRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Event.ID == "" {
		errors["event.id"] = "Event ID is required"
	}
	if r.Event.Name == "" {
		errors["event.name"] = "Event name is required"
	}

	return errors
}
