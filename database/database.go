// Package database provides an interface for game session storage.
package database

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	// MasterUserID is the user ID handed to the game master on join.
	MasterUserID = "master"

	// MasterLinkPrefix marks a join link that belongs to a game master.
	MasterLinkPrefix = "m-"

	// DefaultCharacterColor is used when a character has no color of its own.
	DefaultCharacterColor = "#ffffff"
)

var (
	// ErrMasterNotFound is returned when the master is not found.
	ErrMasterNotFound = errors.New("master not found")

	// ErrGameNotFound is returned when the game is not found.
	ErrGameNotFound = errors.New("game not found")

	// ErrCharacterNotFound is returned when the character is not found.
	ErrCharacterNotFound = errors.New("character not found")

	// ErrMapNotFound is returned when the game has no map.
	ErrMapNotFound = errors.New("map not found")

	// ErrItemNotFound is returned when the item is not found.
	ErrItemNotFound = errors.New("item not found")

	// ErrAudioFileNotFound is returned when the audio file is not found.
	ErrAudioFileNotFound = errors.New("audio file not found")

	// ErrVideoFileNotFound is returned when the video file is not found.
	ErrVideoFileNotFound = errors.New("video file not found")

	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Database is an interface for game session storage.
//
//go:generate mockgen -destination=mock_database.go -package=database . Database
type Database interface {
	FindMasterByID(id int64) (*Master, error)
	CreateMaster(master *Master) error

	CreateGame(game *Game) error
	FindGameByID(id int64) (*Game, error)
	FindGameByExternalID(externalID string) (*Game, error)
	FindGameByMasterLink(link string) (*Game, error)

	CreateCharacter(character *Character) error
	FindCharacterByJoinLink(link string) (*Character, error)
	FindCharacterByExternalID(externalID string) (*Character, error)
	FindCharactersByGameID(gameID int64) ([]*Character, error)
	UpdateCharacterPosition(externalID string, x, y *float64) (*Character, error)

	SaveMap(gmap *Map) error
	FindMapByGameID(gameID int64) (*Map, error)

	CreateItem(item *Item) error
	FindItemByExternalID(externalID string) (*Item, error)
	FindItemsByGameID(gameID int64) ([]*Item, error)
	UpdateItemPosition(externalID string, x, y *float64) (*Item, error)

	AddFogErasePoint(mapID int64, x, y float64, radius int) (*FogErasePoint, error)
	FindFogErasePointsByMapID(mapID int64) ([]*FogErasePoint, error)

	CreateAudioFile(file *AudioFile) error
	FindAudioFileByExternalID(externalID string) (*AudioFile, error)
	FindAudioFilesByGameID(gameID int64) ([]*AudioFile, error)

	CreateVideoFile(file *VideoFile) error
	FindVideoFileByExternalID(externalID string) (*VideoFile, error)
	FindVideoFilesByGameID(gameID int64) ([]*VideoFile, error)

	Close() error
}

// NewExternalID returns a random external ID: 32 lowercase hex characters.
func NewExternalID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsMasterLink reports whether the join link belongs to a game master.
func IsMasterLink(link string) bool {
	return strings.HasPrefix(link, MasterLinkPrefix)
}
