// Package response provides data types for server response to client.
package response

import "tavern/database"

// Join is the result of following a join link.
type Join struct {
	GameID   string `json:"game_id"`
	RoomID   *int64 `json:"room_id"`
	UserID   string `json:"user_id"`
	IsMaster bool   `json:"is_master"`
}

// Item is an item on the map.
type Item struct {
	ExternalID string   `json:"external_id"`
	Name       string   `json:"name"`
	IconURL    string   `json:"icon_url"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
}

// NewItem converts the stored item.
func NewItem(i *database.Item) Item {
	return Item{ExternalID: i.ExternalID, Name: i.Name, IconURL: i.IconURL, X: i.X, Y: i.Y}
}

// Character is a player character or the game master.
type Character struct {
	ExternalID string                   `json:"external_id"`
	AvatarURL  string                   `json:"avatar_url"`
	IsMaster   bool                     `json:"is_master"`
	Name       string                   `json:"name"`
	Color      string                   `json:"color"`
	Inventory  []database.InventoryItem `json:"inventory"`
	X          *float64                 `json:"x"`
	Y          *float64                 `json:"y"`
}

// MasterName is shown for the game master in the character list.
const MasterName = "Мастер игры"

// NewCharacter converts the stored character.
func NewCharacter(c *database.Character) Character {
	inv := []database.InventoryItem(c.Inventory)
	if inv == nil {
		inv = []database.InventoryItem{}
	}
	return Character{
		ExternalID: c.ExternalID,
		AvatarURL:  c.AvatarURL,
		Name:       c.Name,
		Color:      c.DisplayColor(),
		Inventory:  inv,
		X:          c.X,
		Y:          c.Y,
	}
}

// NewMaster returns the synthetic character entry of the game master.
func NewMaster(g *database.Game) Character {
	return Character{
		ExternalID: database.MasterUserID,
		AvatarURL:  g.MasterAvatarURL,
		IsMaster:   true,
		Name:       MasterName,
		Color:      database.DefaultCharacterColor,
		Inventory:  []database.InventoryItem{},
	}
}

// FogErasePoint is a cleared circle of the fog of war.
type FogErasePoint struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	MapExternalID string  `json:"map_external_id"`
	Radius        int     `json:"radius"`
	CreatedAt     *string `json:"created_at"`
}

// MediaFile is an audio or video file of a game.
type MediaFile struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// Playback is the result of starting or stopping a playback.
type Playback struct {
	Status          string `json:"status"`
	AudioExternalID string `json:"audio_external_id,omitempty"`
	VideoExternalID string `json:"video_external_id,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Playback statuses.
const (
	StatusStarted  = "started"
	StatusStopped  = "stopped"
	StatusNotFound = "not_found"
	StatusError    = "error"
	StatusOK       = "ok"
)

// ICEServer is an ICE server the browser must use.
type ICEServer struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username,omitempty"`
	Credential string   `json:"credential,omitempty"`
}

// RoomOptions are the normalised settings of the video room page.
type RoomOptions struct {
	Room           *int64      `json:"room"`
	Simulcast      bool        `json:"simulcast"`
	SVC            string      `json:"svc,omitempty"`
	AudioCodec     string      `json:"acodec,omitempty"`
	VideoCodec     string      `json:"vcodec,omitempty"`
	DTX            bool        `json:"dtx"`
	SubscriberMode bool        `json:"subscriber_mode"`
	MSID           bool        `json:"msid"`
	JanusURL       string      `json:"janus_url"`
	ICEServers     []ICEServer `json:"ice_servers"`
}

// Error is the body of a failed request.
type Error struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
