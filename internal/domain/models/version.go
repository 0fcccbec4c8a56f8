package models

import (
	"time"
)

// Version is one immutable content snapshot, persisted as
// .versions/<doc-id>/<timestamp>.json. The timestamp (milliseconds since
// epoch) is the version's identity within its document.
type Version struct {
	Timestamp int64     `json:"timestamp"`
	Content   string    `json:"content"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
