package db_models

import "time"

type CandidateDB struct {
	Id             string    `gorm:"primaryKey;column:id"`
	PositionId     string    `gorm:"column:position_id;not null;index"`
	ElectionId     string    `gorm:"column:election_id;not null;index"` // denormalized for election wide contact checks
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;not null"`
	EmailKey       string    `gorm:"column:email_key;not null;index"`
	PhoneNumber    string    `gorm:"column:phone_number;not null"`
	PhoneKey       string    `gorm:"column:phone_key;not null;index"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;not null;default:''"`
	WhatsAppKey    string    `gorm:"column:whatsapp_key;not null;default:'';index"`
	Age            int       `gorm:"column:age;not null"`
	Gender         string    `gorm:"column:gender;not null"`
	PhotoRef       string    `gorm:"column:photo_ref;not null;default:''"`
	VoteCount      int       `gorm:"column:vote_count;not null;default:0"`
	IsWinner       bool      `gorm:"column:is_winner;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CandidateDB) TableName() string {
	return "candidates"
}
