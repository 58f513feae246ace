package database

import "time"

// AudioFile is a sound track the master can play into the game room.
type AudioFile struct {
	ID              int64     `gorm:"column:id;primary_key"`
	ExternalID      string    `gorm:"column:external_id"`
	GameID          int64     `gorm:"column:game_id"`
	Name            string    `gorm:"column:name"`
	URL             string    `gorm:"column:url"`
	DurationSeconds *float64  `gorm:"column:duration_seconds"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName maps AudioFile to its table.
func (AudioFile) TableName() string { return "audio_files" }

// DeepCopy creates a deep copy of the given AudioFile.
func (a *AudioFile) DeepCopy() *AudioFile {
	c := *a
	c.DurationSeconds = copyFloat(a.DurationSeconds)
	return &c
}

// VideoFile is a clip the master can play into the game room.
type VideoFile struct {
	ID              int64     `gorm:"column:id;primary_key"`
	ExternalID      string    `gorm:"column:external_id"`
	GameID          int64     `gorm:"column:game_id"`
	Name            string    `gorm:"column:name"`
	URL             string    `gorm:"column:url"`
	DurationSeconds *float64  `gorm:"column:duration_seconds"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName maps VideoFile to its table.
func (VideoFile) TableName() string { return "video_files" }

// DeepCopy creates a deep copy of the given VideoFile.
func (v *VideoFile) DeepCopy() *VideoFile {
	c := *v
	c.DurationSeconds = copyFloat(v.DurationSeconds)
	return &c
}
