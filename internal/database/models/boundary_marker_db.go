package db_models

import "time"

// BoundaryMarkerDB records that the signal for a schedule boundary was already emitted.
type BoundaryMarkerDB struct {
	ElectionId string    `gorm:"primaryKey;column:election_id"`
	Boundary   string    `gorm:"primaryKey;column:boundary"` // "start" or "end"
	FiredAt    time.Time `gorm:"column:fired_at;not null"`
}

func (BoundaryMarkerDB) TableName() string {
	return "boundary_markers"
}
