package db_models

import "time"

type ElectionDB struct {
	Id                 string     `gorm:"primaryKey;column:id"`
	Name               string     `gorm:"column:name;not null"`
	Category           string     `gorm:"column:category;not null;default:''"`
	Type               string     `gorm:"column:type;not null;default:''"`
	StartTime          *time.Time `gorm:"column:start_time"`                   // UTC, nil until scheduled
	EndTime            *time.Time `gorm:"column:end_time"`                     // UTC, nil until scheduled
	Status             string     `gorm:"column:status;not null;index"`        // last persisted status, a cache of the effective status
	AutoDeclareEnabled bool       `gorm:"column:auto_declare_enabled;not null"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`

	Positions []PositionDB       `gorm:"foreignKey:ElectionId;references:Id;constraint:OnDelete:CASCADE"`
	Markers   []BoundaryMarkerDB `gorm:"foreignKey:ElectionId;references:Id;constraint:OnDelete:CASCADE"`
}

func (ElectionDB) TableName() string {
	return "elections"
}
