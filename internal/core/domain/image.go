package domain

import "time"

// Image is an immutable build artifact: a filesystem snapshot of the staged
// source tree plus its resolved dependency set. Rebuilding from the same
// inputs produces a new Image with the same SourceDigest and Lock.
type Image struct {
	ID           string    `json:"id"`
	Tag          string    `json:"tag"`
	SourceDigest string    `json:"source_digest"`
	Lock         Lock      `json:"lock"`
	BuiltAt      time.Time `json:"built_at"`
}
