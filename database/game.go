package database

import "time"

// Game is a tabletop session run by a master in a single video room.
type Game struct {
	ID              int64     `gorm:"column:id;primary_key"`
	ExternalID      string    `gorm:"column:external_id"`
	Name            string    `gorm:"column:name"`
	MasterID        int64     `gorm:"column:master_id"`
	MasterJoinLink  string    `gorm:"column:master_join_link"`
	MasterAvatarURL string    `gorm:"column:master_avatar_url"`
	RoomID          *int64    `gorm:"column:room_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName maps Game to its table.
func (Game) TableName() string { return "games" }

// HasRoom reports whether a video room is assigned to the game.
func (g *Game) HasRoom() bool {
	return g.RoomID != nil
}

// DeepCopy creates a deep copy of the given Game.
func (g *Game) DeepCopy() *Game {
	c := *g
	if g.RoomID != nil {
		room := *g.RoomID
		c.RoomID = &room
	}
	return &c
}
