package reward

import "time"

// Reward is one granted points entry.
type Reward struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the aggregate view shown on the dashboard. It is read-only and
// refreshed independently of request mutations.
type Summary struct {
	TotalPoints int      `json:"total_points"`
	Recent      []Reward `json:"recent"`
}
