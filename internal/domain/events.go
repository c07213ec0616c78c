package domain

import "time"

type TableStatusEvent struct {
	TableID   int         `json:"table_id"`
	OldStatus TableStatus `json:"old_status"`
	NewStatus TableStatus `json:"new_status"`
	ChangedBy string      `json:"changed_by"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatusChange is one row of a table's status history.
type StatusChange struct {
	OldStatus TableStatus `json:"old_status"`
	NewStatus TableStatus `json:"new_status"`
	ChangedBy string      `json:"changed_by"`
	ChangedAt time.Time   `json:"changed_at"`
}
