package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // registers the postgres dialect
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"tavern/database"
	"tavern/database/migrations"
)

// DB is a PostgreSQL-backed database.
type DB struct {
	db *gorm.DB
}

// Open connects to PostgreSQL.
func Open(config Config) (*DB, error) {
	log.Info().Stringer("database", config).Msg("connecting to database")
	db, err := gorm.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config, err)
	}
	return &DB{db: db}, nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate applies every embedded migration that was not applied yet.
func (d *DB) Migrate() ([]string, error) {
	if err := d.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	all, err := migrations.All()
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var applied []string
	for _, m := range all {
		var count int
		if err := d.db.Table("schema_migrations").Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx := d.db.Begin()
		if err := tx.Exec(m.SQL).Error; err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version).Error; err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		if err := tx.Commit().Error; err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", m.Version, err)
		}
		applied = append(applied, m.Version)
		log.Printf("migration %s applied", m.Version)
	}
	return applied, nil
}

// notFound translates gorm's record-not-found into the given sentinel.
func notFound(err error, sentinel error, key any) error {
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%v: %w", key, sentinel)
	}
	return err
}

// uniqueViolation is the SQLSTATE of a unique constraint violation.
const uniqueViolation = "23505"

// create inserts value and translates unique violations into database.ErrAlreadyExists.
func (d *DB) create(value any) error {
	err := d.db.Create(value).Error
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pqErr.Constraint, database.ErrAlreadyExists)
	}
	return err
}

func (d *DB) findOne(out any, sentinel error, query string, arg any) error {
	if err := d.db.Where(query, arg).First(out).Error; err != nil {
		return notFound(err, sentinel, arg)
	}
	return nil
}

// FindMasterByID finds a master by its ID.
func (d *DB) FindMasterByID(id int64) (*database.Master, error) {
	var master database.Master
	if err := d.findOne(&master, database.ErrMasterNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	return &master, nil
}

// CreateMaster inserts a master.
func (d *DB) CreateMaster(master *database.Master) error {
	if master.ExternalID == "" {
		master.ExternalID = database.NewExternalID()
	}
	return d.create(master)
}

// CreateGame inserts a game.
func (d *DB) CreateGame(game *database.Game) error {
	if game.ExternalID == "" {
		game.ExternalID = database.NewExternalID()
	}
	return d.create(game)
}

// FindGameByID finds a game by its ID.
func (d *DB) FindGameByID(id int64) (*database.Game, error) {
	var game database.Game
	if err := d.findOne(&game, database.ErrGameNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	return &game, nil
}

// FindGameByExternalID finds a game by its external ID.
func (d *DB) FindGameByExternalID(externalID string) (*database.Game, error) {
	var game database.Game
	if err := d.findOne(&game, database.ErrGameNotFound, "external_id = ?", externalID); err != nil {
		return nil, err
	}
	return &game, nil
}

// FindGameByMasterLink finds a game by the join link of its master.
func (d *DB) FindGameByMasterLink(link string) (*database.Game, error) {
	var game database.Game
	if err := d.findOne(&game, database.ErrGameNotFound, "master_join_link = ?", link); err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateCharacter inserts a character.
func (d *DB) CreateCharacter(character *database.Character) error {
	if character.ExternalID == "" {
		character.ExternalID = database.NewExternalID()
	}
	if character.Color == "" {
		character.Color = database.DefaultCharacterColor
	}
	return d.create(character)
}

// FindCharacterByJoinLink finds a character by its join link.
func (d *DB) FindCharacterByJoinLink(link string) (*database.Character, error) {
	var c database.Character
	if err := d.findOne(&c, database.ErrCharacterNotFound, "join_link = ?", link); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCharacterByExternalID finds a character by its external ID.
func (d *DB) FindCharacterByExternalID(externalID string) (*database.Character, error) {
	var c database.Character
	if err := d.findOne(&c, database.ErrCharacterNotFound, "external_id = ?", externalID); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCharactersByGameID lists the characters of a game.
func (d *DB) FindCharactersByGameID(gameID int64) ([]*database.Character, error) {
	var chars []*database.Character
	if err := d.db.Where("game_id = ?", gameID).Order("id").Find(&chars).Error; err != nil {
		return nil, fmt.Errorf("find characters of game %d: %w", gameID, err)
	}
	return chars, nil
}

// UpdateCharacterPosition moves a character on the map.
func (d *DB) UpdateCharacterPosition(externalID string, x, y *float64) (*database.Character, error) {
	c, err := d.FindCharacterByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if err := d.db.Model(c).Updates(map[string]any{
		"x":          x,
		"y":          y,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("update character %s: %w", externalID, err)
	}
	c.X, c.Y = x, y
	return c, nil
}

// SaveMap inserts the map when it has no ID yet, otherwise updates it.
func (d *DB) SaveMap(gmap *database.Map) error {
	if gmap.ID == 0 {
		if gmap.ExternalID == "" {
			gmap.ExternalID = database.NewExternalID()
		}
		return d.create(gmap)
	}
	res := d.db.Model(gmap).Updates(map[string]any{
		"game_id":    gmap.GameID,
		"url":        gmap.URL,
		"x_center":   gmap.XCenter,
		"y_center":   gmap.YCenter,
		"zoom":       gmap.Zoom,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("update map %d: %w", gmap.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%d: %w", gmap.ID, database.ErrMapNotFound)
	}
	return nil
}

// FindMapByGameID finds the map of a game.
func (d *DB) FindMapByGameID(gameID int64) (*database.Map, error) {
	var gmap database.Map
	if err := d.findOne(&gmap, database.ErrMapNotFound, "game_id = ?", gameID); err != nil {
		return nil, err
	}
	return &gmap, nil
}

// CreateItem inserts an item.
func (d *DB) CreateItem(item *database.Item) error {
	if item.ExternalID == "" {
		item.ExternalID = database.NewExternalID()
	}
	return d.create(item)
}

// FindItemByExternalID finds an item by its external ID.
func (d *DB) FindItemByExternalID(externalID string) (*database.Item, error) {
	var item database.Item
	if err := d.findOne(&item, database.ErrItemNotFound, "external_id = ?", externalID); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemsByGameID lists the items of a game.
func (d *DB) FindItemsByGameID(gameID int64) ([]*database.Item, error) {
	var items []*database.Item
	if err := d.db.Where("game_id = ?", gameID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find items of game %d: %w", gameID, err)
	}
	return items, nil
}

// UpdateItemPosition moves an item on the map.
func (d *DB) UpdateItemPosition(externalID string, x, y *float64) (*database.Item, error) {
	item, err := d.FindItemByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if err := d.db.Model(item).Updates(map[string]any{
		"x":          x,
		"y":          y,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("update item %s: %w", externalID, err)
	}
	item.X, item.Y = x, y
	return item, nil
}

// AddFogErasePoint stores a new fog erase point on the map.
func (d *DB) AddFogErasePoint(mapID int64, x, y float64, radius int) (*database.FogErasePoint, error) {
	point := &database.FogErasePoint{MapID: mapID, X: x, Y: y, Radius: radius}
	if err := d.create(point); err != nil {
		return nil, fmt.Errorf("add fog erase point: %w", err)
	}
	return point, nil
}

// FindFogErasePointsByMapID lists the fog erase points of a map in creation order.
func (d *DB) FindFogErasePointsByMapID(mapID int64) ([]*database.FogErasePoint, error) {
	var points []*database.FogErasePoint
	if err := d.db.Where("map_id = ?", mapID).Order("id").Find(&points).Error; err != nil {
		return nil, fmt.Errorf("find fog erase points of map %d: %w", mapID, err)
	}
	return points, nil
}

// CreateAudioFile inserts an audio file.
func (d *DB) CreateAudioFile(file *database.AudioFile) error {
	if file.ExternalID == "" {
		file.ExternalID = database.NewExternalID()
	}
	return d.create(file)
}

// FindAudioFileByExternalID finds an audio file by its external ID.
func (d *DB) FindAudioFileByExternalID(externalID string) (*database.AudioFile, error) {
	var file database.AudioFile
	if err := d.findOne(&file, database.ErrAudioFileNotFound, "external_id = ?", externalID); err != nil {
		return nil, err
	}
	return &file, nil
}

// FindAudioFilesByGameID lists the audio files of a game.
func (d *DB) FindAudioFilesByGameID(gameID int64) ([]*database.AudioFile, error) {
	var files []*database.AudioFile
	if err := d.db.Where("game_id = ?", gameID).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("find audio files of game %d: %w", gameID, err)
	}
	return files, nil
}

// CreateVideoFile inserts a video file.
func (d *DB) CreateVideoFile(file *database.VideoFile) error {
	if file.ExternalID == "" {
		file.ExternalID = database.NewExternalID()
	}
	return d.create(file)
}

// FindVideoFileByExternalID finds a video file by its external ID.
func (d *DB) FindVideoFileByExternalID(externalID string) (*database.VideoFile, error) {
	var file database.VideoFile
	if err := d.findOne(&file, database.ErrVideoFileNotFound, "external_id = ?", externalID); err != nil {
		return nil, err
	}
	return &file, nil
}

// FindVideoFilesByGameID lists the video files of a game.
func (d *DB) FindVideoFilesByGameID(gameID int64) ([]*database.VideoFile, error) {
	var files []*database.VideoFile
	if err := d.db.Where("game_id = ?", gameID).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("find video files of game %d: %w", gameID, err)
	}
	return files, nil
}

var _ database.Database = (*DB)(nil)
