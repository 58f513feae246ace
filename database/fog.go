package database

import "time"

// FogErasePoint is a circle cleared from the fog of war on a map.
type FogErasePoint struct {
	ID        int64     `gorm:"column:id;primary_key"`
	MapID     int64     `gorm:"column:map_id"`
	X         float64   `gorm:"column:x"`
	Y         float64   `gorm:"column:y"`
	Radius    int       `gorm:"column:radius"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName maps FogErasePoint to its table.
func (FogErasePoint) TableName() string { return "fog_erase_points" }

// DeepCopy creates a deep copy of the given FogErasePoint.
func (f *FogErasePoint) DeepCopy() *FogErasePoint {
	c := *f
	return &c
}
