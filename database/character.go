package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InventoryItem is a single entry of a character inventory.
type InventoryItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Inventory is stored as a JSON document next to the character.
type Inventory []InventoryItem

// Value implements driver.Valuer.
func (inv Inventory) Value() (driver.Value, error) {
	if inv == nil {
		return "[]", nil
	}
	b, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("marshal inventory: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (inv *Inventory) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*inv = Inventory{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported inventory type %T", src)
	}
	var items Inventory
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("unmarshal inventory: %w", err)
	}
	*inv = items
	return nil
}

// Character is a player character that joins a game by its own link.
type Character struct {
	ID         int64     `gorm:"column:id;primary_key"`
	ExternalID string    `gorm:"column:external_id"`
	Name       string    `gorm:"column:name"`
	GameID     int64     `gorm:"column:game_id"`
	JoinLink   string    `gorm:"column:join_link"`
	AvatarURL  string    `gorm:"column:avatar_url"`
	Race       string    `gorm:"column:race"`
	Color      string    `gorm:"column:color"`
	Inventory  Inventory `gorm:"column:inventory;type:jsonb"`
	X          *float64  `gorm:"column:x"`
	Y          *float64  `gorm:"column:y"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName maps Character to its table.
func (Character) TableName() string { return "characters" }

// DisplayColor returns the character color or the default one.
func (c *Character) DisplayColor() string {
	if c.Color == "" {
		return DefaultCharacterColor
	}
	return c.Color
}

// DeepCopy creates a deep copy of the given Character.
func (c *Character) DeepCopy() *Character {
	cp := *c
	if c.Inventory != nil {
		cp.Inventory = append(Inventory{}, c.Inventory...)
	}
	cp.X = copyFloat(c.X)
	cp.Y = copyFloat(c.Y)
	return &cp
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
