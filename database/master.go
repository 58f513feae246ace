package database

import "time"

// Master is the person running one or more games.
type Master struct {
	ID         int64     `gorm:"column:id;primary_key"`
	ExternalID string    `gorm:"column:external_id"`
	Name       string    `gorm:"column:name"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName maps Master to its table.
func (Master) TableName() string { return "masters" }

// DeepCopy creates a deep copy of the given Master.
func (m *Master) DeepCopy() *Master {
	c := *m
	return &c
}
