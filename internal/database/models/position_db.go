package db_models

import "time"

type PositionDB struct {
	Id         string    `gorm:"primaryKey;column:id"`
	ElectionId string    `gorm:"column:election_id;not null;uniqueIndex:idx_positions_election_name,priority:1"`
	Name       string    `gorm:"column:name;not null"`
	NameKey    string    `gorm:"column:name_key;not null;uniqueIndex:idx_positions_election_name,priority:2"` // case folded name
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	Candidates []CandidateDB `gorm:"foreignKey:PositionId;references:Id;constraint:OnDelete:CASCADE"`
}

func (PositionDB) TableName() string {
	return "positions"
}
