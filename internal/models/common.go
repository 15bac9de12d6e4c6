package models

import "time"

// AuditFields contains common timestamp fields embedded in persisted rows.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
