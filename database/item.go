package database

import "time"

// Item is a token placed on the map, such as a chest or a door.
type Item struct {
	ID         int64     `gorm:"column:id;primary_key"`
	ExternalID string    `gorm:"column:external_id"`
	GameID     int64     `gorm:"column:game_id"`
	Name       string    `gorm:"column:name"`
	IconURL    string    `gorm:"column:icon_url"`
	X          *float64  `gorm:"column:x"`
	Y          *float64  `gorm:"column:y"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName maps Item to its table.
func (Item) TableName() string { return "items" }

// DeepCopy creates a deep copy of the given Item.
func (i *Item) DeepCopy() *Item {
	c := *i
	c.X = copyFloat(i.X)
	c.Y = copyFloat(i.Y)
	return &c
}
