package domain

import "time"

// Container represents a single launched instance of a built image.
// Exactly one server process runs inside it for the container's lifetime.
type Container struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Status    string    `json:"status"`
	State     string    `json:"state"` // running, exited, etc.
	Phase     Phase     `json:"phase"`
	IPAddress string    `json:"ip_address,omitempty"`
	Port      int       `json:"port,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}
