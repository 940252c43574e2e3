package domain

import "time"

// UnknownActionName is the reserved fallback Action for inbound bodies that
// match no configured trigger. It must be provisioned by the host system.
const UnknownActionName = "UNKNOWN"

// Action is a trigger keyword for the auto-responder. Names are unique,
// uppercased and trimmed on every write.
type Action struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeActionName applies the canonical form used for Action names and
// for matching inbound bodies against them.
func NormalizeActionName(name string) string {
	return NormalizeBody(name)
}

// Response is a reply text owned by an Action. At most one Response per
// Action may be active at any time; activating one deactivates its sibling.
type Response struct {
	ID        int64     `json:"id"`
	ActionID  int64     `json:"action_id"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
