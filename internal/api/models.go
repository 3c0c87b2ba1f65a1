package api

import (
	"time"

	"user-reminders/internal/model"
)

// AddItemRequest is the payload for creating a reminder. Due is an
// ISO-8601 string; empty defaults to 09:00 tomorrow.
type AddItemRequest struct {
	UID     string `json:"uid,omitempty"`
	Summary string `json:"summary"`
	Due     string `json:"due,omitempty"`
}

// UpdateItemRequest is a partial update: omitted fields keep their
// stored values.
type UpdateItemRequest struct {
	Summary   string `json:"summary,omitempty"`
	Due       string `json:"due,omitempty"`
	LastFired string `json:"last_fired,omitempty"`
}

// RemoveItemsRequest names the reminders to delete.
type RemoveItemsRequest struct {
	UIDs []string `json:"uids"`
}

// ItemResponse is the wire form of a reminder.
type ItemResponse struct {
	ID        string `json:"id"`
	Summary   string `json:"summary"`
	Due       string `json:"due"`
	UserID    string `json:"user_id"`
	LastFired string `json:"last_fired"`
}

// GetItemsResponse wraps a reminder listing.
type GetItemsResponse struct {
	Reminders []ItemResponse `json:"reminders"`
}

// ErrorResponse carries a sanitized error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toItemResponse(r model.Reminder) ItemResponse {
	lastFired := ""
	if r.LastFired != nil {
		lastFired = r.LastFired.Format(time.RFC3339)
	}
	return ItemResponse{
		ID:        r.UID,
		Summary:   r.Summary,
		Due:       r.Due.Format(time.RFC3339),
		UserID:    r.UserID,
		LastFired: lastFired,
	}
}
