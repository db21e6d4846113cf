package types

import (
	"time"

	"github.com/google/uuid"
)

// OperationLogEntry records one committed cleanup.
type OperationLogEntry struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Operation    string    `json:"operation"`
	ItemsDeleted int       `json:"itemsDeleted"`
	FreedSpace   int64     `json:"freedSpace"`
	Details      []string  `json:"details"`
}

// NewOperationLogEntry stamps a new entry with a fresh ID and the current time.
func NewOperationLogEntry(operation string, itemsDeleted int, freed int64, details []string) OperationLogEntry {
	if details == nil {
		details = []string{}
	}
	return OperationLogEntry{
		ID:           uuid.NewString(),
		Date:         time.Now(),
		Operation:    operation,
		ItemsDeleted: itemsDeleted,
		FreedSpace:   freed,
		Details:      details,
	}
}

// EntryFromResult summarises a committed cleanup. Details lists removed paths.
func EntryFromResult(operation string, r *CleanupResult) OperationLogEntry {
	return NewOperationLogEntry(operation, len(r.Removed), r.FreedSpace, r.Paths())
}
