package stats

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the counter set shown by the portal's stats widgets.
type Snapshot struct {
	TotalJobs    int `json:"totalJobs"`
	NewToday     int `json:"newToday"`
	Departments  int `json:"departments"`
	Applications int `json:"applications"`
}

// Application is one recorded click-through to a job's application link.
type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	UserID    *uuid.UUID
	CreatedAt time.Time
}
