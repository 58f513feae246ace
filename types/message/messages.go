// Package message provides data types for broker message.
package message

import (
	"encoding/json"
	"fmt"
)

// Topics of the game event stream.
const (
	MapUpdate        = "map.update"
	ItemUpdate       = "item.update"
	CharacterUpdate  = "character.update"
	DiceStart        = "dice.start"
	DiceChange       = "dice.change"
	DiceResult       = "dice.result"
	FogErasePointAdd = "fog_erace_point.add"
)

// Event is a single message of the game event stream.
type Event struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// New encodes data into an event of the given topic.
func New(topic string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s: %w", topic, err)
	}
	return Event{Topic: topic, Data: raw}, nil
}

// Decode decodes the event payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.Topic, err)
	}
	return nil
}

// Position is the data of item.update and character.update.
type Position struct {
	ExternalID string   `json:"external_id"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
}

// DiceStarted is the data of dice.start.
type DiceStarted struct {
	DiceID string `json:"dice_id"`
}

// DiceChanged is the data of dice.change.
type DiceChanged struct {
	NewDiceID string `json:"new_dice_id"`
}

// DiceResulted is the data of dice.result.
type DiceResulted struct {
	DiceID string `json:"dice_id"`
	Result int    `json:"result"`
}

// FogErasePoint is the data of fog_erace_point.add.
type FogErasePoint struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	MapExternalID string  `json:"map_external_id"`
	Radius        int     `json:"radius"`
	CreatedAt     *string `json:"created_at"`
}

// Envelope wraps an event published to other instances.
type Envelope struct {
	Origin string `json:"origin"`
	GameID string `json:"game_id"`
	Event  Event  `json:"event"`
}
