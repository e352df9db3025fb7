package model

import "time"

// Visit records one page view. SessionID comes from the session_id cookie
// and is stable for anonymous visitors; UserID is set when the request
// carried a decodable bearer token. Visits are written once and never
// updated.
type Visit struct {
	ID        string    `bson:"_id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	Page      string    `bson:"page" json:"page"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	UserID    string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
}

// AdminStats is the payload of GET /api/admin/stats.
// RegisteredVisits + AnonymousVisits always equals TotalVisits.
type AdminStats struct {
	TotalVisits      int64        `json:"total_visits"`
	TotalUsers       int64        `json:"total_users"`
	RegisteredVisits int64        `json:"registered_visits"`
	AnonymousVisits  int64        `json:"anonymous_visits"`
	Users            []PublicUser `json:"users"`
	RecentVisits     []Visit      `json:"recent_visits"`
}
