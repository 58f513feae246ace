package database

import "time"

// Map is the battle map shown to everyone in a game. A game has at most one map.
type Map struct {
	ID         int64     `gorm:"column:id;primary_key" json:"id"`
	ExternalID string    `gorm:"column:external_id" json:"external_id"`
	GameID     int64     `gorm:"column:game_id" json:"game_id"`
	URL        string    `gorm:"column:url" json:"url"`
	XCenter    float64   `gorm:"column:x_center" json:"x_center"`
	YCenter    float64   `gorm:"column:y_center" json:"y_center"`
	Zoom       float64   `gorm:"column:zoom" json:"zoom"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"-"`
}

// TableName maps Map to its table.
func (Map) TableName() string { return "maps" }

// Move applies the given viewport changes. Nil values keep the current ones.
func (m *Map) Move(xCenter, yCenter, zoom *float64) {
	if xCenter != nil {
		m.XCenter = *xCenter
	}
	if yCenter != nil {
		m.YCenter = *yCenter
	}
	if zoom != nil {
		m.Zoom = *zoom
	}
}

// DeepCopy creates a deep copy of the given Map.
func (m *Map) DeepCopy() *Map {
	c := *m
	return &c
}
