package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is one entry of the ordered site navigation menu.
type MenuItem struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Metadata holds per-record site metadata, currently the navigation menu.
type Metadata struct {
	ID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Menu []MenuItem `gorm:"type:jsonb;serializer:json" json:"menu"`
}

func (m *Metadata) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
