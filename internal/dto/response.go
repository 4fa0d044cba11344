package dto

import "time"

// BasicResponse is the gateway's body for errors and bodiless successes.
type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}
