package model

import (
	"time"

	"github.com/google/uuid"
)

// EventAugmented is the type of the event published for every produced file.
const EventAugmented = "image.augmented"

// Event is the message published to the broker when an output is produced.
type Event struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Type      string    `json:"type"`
	Dir       string    `json:"dir"`
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	Codes     []string  `json:"codes"` // e.g. ["blur_2.0", "noise_0.05"]
	CreatedAt time.Time `json:"created_at"`
}
