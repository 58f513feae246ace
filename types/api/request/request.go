// Package request contains api request types.
package request

// Position moves an item or a character. Null coordinates take it off the map.
type Position struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// MapUpdate changes the map viewport. Missing fields keep their values.
type MapUpdate struct {
	XCenter *float64 `json:"x_center"`
	YCenter *float64 `json:"y_center"`
	Zoom    *float64 `json:"zoom"`
}

// DiceStarted announces a dice roll.
type DiceStarted struct {
	DiceID string `json:"dice_id" binding:"required"`
}

// DiceChanged announces a different dice.
type DiceChanged struct {
	NewDiceID string `json:"new_dice_id" binding:"required"`
}

// DiceResulted announces the result of a roll.
type DiceResulted struct {
	DiceID string `json:"dice_id" binding:"required"`
	Result *int   `json:"result" binding:"required"`
}

// FogErasePoint clears a circle of the fog of war.
type FogErasePoint struct {
	X      *float64 `json:"x" binding:"required"`
	Y      *float64 `json:"y" binding:"required"`
	Radius *int     `json:"radius" binding:"required"`
}

// PlayAudio starts or stops an audio file.
type PlayAudio struct {
	AudioExternalID string   `json:"audio_external_id" binding:"required"`
	Volume          *float64 `json:"volume"`
}

// VolumeOrDefault returns the requested volume or full volume.
func (p PlayAudio) VolumeOrDefault() float64 {
	if p.Volume == nil {
		return 1
	}
	return *p.Volume
}

// PlayVideo starts or stops a video file.
type PlayVideo struct {
	VideoExternalID string `json:"video_external_id" binding:"required"`
}

// RoomOptions are the query flags of the video room page.
type RoomOptions struct {
	Room           string `form:"room"`
	Simulcast      string `form:"simulcast"`
	SVC            string `form:"svc"`
	AudioCodec     string `form:"acodec"`
	VideoCodec     string `form:"vcodec"`
	DTX            string `form:"dtx"`
	SubscriberMode string `form:"subscriber-mode"`
	MSID           string `form:"msid"`
}
