// Package memory provides an in-memory database implementation.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"tavern/database"
)

// DB is a memory-backed database.
type DB struct {
	db *memdb.MemDB

	mu  sync.Mutex
	seq map[string]int64
	now func() time.Time
}

// New creates a new memory-backed database.
func New() *DB {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	return &DB{
		db:  db,
		seq: map[string]int64{},
		now: time.Now,
	}
}

// nextID returns the next primary key of the table.
func (d *DB) nextID(table string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq[table]++
	return d.seq[table]
}

// Close implements database.Database. There is nothing to release.
func (d *DB) Close() error {
	return nil
}

// copier is implemented by every stored entity; rows never leave the store by reference.
type copier[T any] interface {
	*T
	DeepCopy() *T
}

// first returns a copy of the single object matching the index, or notFound.
func first[T any, P copier[T]](d *DB, table, index string, notFound error, arg any) (*T, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(table, index, arg)
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", table, index, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%v: %w", arg, notFound)
	}
	return P(raw.(*T)).DeepCopy(), nil
}

// list returns copies of every object matching the index, ordered by ID.
func list[T any, P copier[T]](d *DB, table, index string, arg any, id func(*T) int64) ([]*T, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	iter, err := txn.Get(table, index, arg)
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", table, index, err)
	}
	var results []*T
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		results = append(results, P(raw.(*T)).DeepCopy())
	}
	sort.Slice(results, func(i, j int) bool { return id(results[i]) < id(results[j]) })
	return results, nil
}

// insertUnique inserts obj unless another object already holds one of the unique keys.
func (d *DB) insertUnique(table string, obj any, keys map[string]string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()
	for index, key := range keys {
		if key == "" {
			continue
		}
		existing, err := txn.First(table, index, key)
		if err != nil {
			return fmt.Errorf("find %s by %s: %w", table, index, err)
		}
		if existing != nil {
			return fmt.Errorf("%s %s: %w", index, key, database.ErrAlreadyExists)
		}
	}
	if err := txn.Insert(table, obj); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	txn.Commit()
	return nil
}

// FindMasterByID finds a master by its ID.
func (d *DB) FindMasterByID(id int64) (*database.Master, error) {
	return first[database.Master](d, tblMasters, idxID, database.ErrMasterNotFound, id)
}

// CreateMaster inserts a master and assigns its ID.
func (d *DB) CreateMaster(master *database.Master) error {
	master.ID = d.nextID(tblMasters)
	if master.ExternalID == "" {
		master.ExternalID = database.NewExternalID()
	}
	master.CreatedAt, master.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblMasters, master.DeepCopy(), nil)
}

// CreateGame inserts a game and assigns its ID.
func (d *DB) CreateGame(game *database.Game) error {
	game.ID = d.nextID(tblGames)
	if game.ExternalID == "" {
		game.ExternalID = database.NewExternalID()
	}
	game.CreatedAt, game.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblGames, game.DeepCopy(), map[string]string{
		idxExternalID: game.ExternalID,
		idxMasterLink: game.MasterJoinLink,
	})
}

// FindGameByID finds a game by its ID.
func (d *DB) FindGameByID(id int64) (*database.Game, error) {
	return first[database.Game](d, tblGames, idxID, database.ErrGameNotFound, id)
}

// FindGameByExternalID finds a game by its external ID.
func (d *DB) FindGameByExternalID(externalID string) (*database.Game, error) {
	return first[database.Game](d, tblGames, idxExternalID, database.ErrGameNotFound, externalID)
}

// FindGameByMasterLink finds a game by the join link of its master.
func (d *DB) FindGameByMasterLink(link string) (*database.Game, error) {
	return first[database.Game](d, tblGames, idxMasterLink, database.ErrGameNotFound, link)
}

// CreateCharacter inserts a character and assigns its ID.
func (d *DB) CreateCharacter(character *database.Character) error {
	character.ID = d.nextID(tblCharacters)
	if character.ExternalID == "" {
		character.ExternalID = database.NewExternalID()
	}
	if character.Color == "" {
		character.Color = database.DefaultCharacterColor
	}
	character.CreatedAt, character.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblCharacters, character.DeepCopy(), map[string]string{
		idxExternalID: character.ExternalID,
		idxJoinLink:   character.JoinLink,
	})
}

// FindCharacterByJoinLink finds a character by its join link.
func (d *DB) FindCharacterByJoinLink(link string) (*database.Character, error) {
	return first[database.Character](d, tblCharacters, idxJoinLink, database.ErrCharacterNotFound, link)
}

// FindCharacterByExternalID finds a character by its external ID.
func (d *DB) FindCharacterByExternalID(externalID string) (*database.Character, error) {
	return first[database.Character](d, tblCharacters, idxExternalID, database.ErrCharacterNotFound, externalID)
}

// FindCharactersByGameID lists the characters of a game.
func (d *DB) FindCharactersByGameID(gameID int64) ([]*database.Character, error) {
	return list(d, tblCharacters, idxGameID, gameID, func(c *database.Character) int64 { return c.ID })
}

// UpdateCharacterPosition moves a character on the map.
func (d *DB) UpdateCharacterPosition(externalID string, x, y *float64) (*database.Character, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblCharacters, idxExternalID, externalID)
	if err != nil {
		return nil, fmt.Errorf("find character by external id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", externalID, database.ErrCharacterNotFound)
	}
	info := raw.(*database.Character).DeepCopy()
	info.X, info.Y = x, y
	info.UpdatedAt = d.now()
	if err := txn.Insert(tblCharacters, info); err != nil {
		return nil, fmt.Errorf("insert character: %w", err)
	}
	txn.Commit()
	return info.DeepCopy(), nil
}

// SaveMap inserts the map when it has no ID yet, otherwise replaces it.
func (d *DB) SaveMap(gmap *database.Map) error {
	txn := d.db.Txn(true)
	defer txn.Abort()
	if gmap.ID == 0 {
		existing, err := txn.First(tblMaps, idxGameID, gmap.GameID)
		if err != nil {
			return fmt.Errorf("find map by game id: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("map of game %d: %w", gmap.GameID, database.ErrAlreadyExists)
		}
		gmap.ID = d.nextID(tblMaps)
		gmap.CreatedAt = d.now()
		if gmap.ExternalID == "" {
			gmap.ExternalID = database.NewExternalID()
		}
	} else {
		existing, err := txn.First(tblMaps, idxID, gmap.ID)
		if err != nil {
			return fmt.Errorf("find map by id: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("%d: %w", gmap.ID, database.ErrMapNotFound)
		}
	}
	gmap.UpdatedAt = d.now()
	if err := txn.Insert(tblMaps, gmap.DeepCopy()); err != nil {
		return fmt.Errorf("insert map: %w", err)
	}
	txn.Commit()
	return nil
}

// FindMapByGameID finds the map of a game.
func (d *DB) FindMapByGameID(gameID int64) (*database.Map, error) {
	return first[database.Map](d, tblMaps, idxGameID, database.ErrMapNotFound, gameID)
}

// CreateItem inserts an item and assigns its ID.
func (d *DB) CreateItem(item *database.Item) error {
	item.ID = d.nextID(tblItems)
	if item.ExternalID == "" {
		item.ExternalID = database.NewExternalID()
	}
	item.CreatedAt, item.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblItems, item.DeepCopy(), map[string]string{idxExternalID: item.ExternalID})
}

// FindItemByExternalID finds an item by its external ID.
func (d *DB) FindItemByExternalID(externalID string) (*database.Item, error) {
	return first[database.Item](d, tblItems, idxExternalID, database.ErrItemNotFound, externalID)
}

// FindItemsByGameID lists the items of a game.
func (d *DB) FindItemsByGameID(gameID int64) ([]*database.Item, error) {
	return list(d, tblItems, idxGameID, gameID, func(i *database.Item) int64 { return i.ID })
}

// UpdateItemPosition moves an item on the map.
func (d *DB) UpdateItemPosition(externalID string, x, y *float64) (*database.Item, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblItems, idxExternalID, externalID)
	if err != nil {
		return nil, fmt.Errorf("find item by external id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", externalID, database.ErrItemNotFound)
	}
	info := raw.(*database.Item).DeepCopy()
	info.X, info.Y = x, y
	info.UpdatedAt = d.now()
	if err := txn.Insert(tblItems, info); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	txn.Commit()
	return info.DeepCopy(), nil
}

// AddFogErasePoint stores a new fog erase point on the map.
func (d *DB) AddFogErasePoint(mapID int64, x, y float64, radius int) (*database.FogErasePoint, error) {
	point := &database.FogErasePoint{
		ID:        d.nextID(tblFogPoints),
		MapID:     mapID,
		X:         x,
		Y:         y,
		Radius:    radius,
		CreatedAt: d.now(),
	}
	if err := d.insertUnique(tblFogPoints, point.DeepCopy(), nil); err != nil {
		return nil, err
	}
	return point, nil
}

// FindFogErasePointsByMapID lists the fog erase points of a map in creation order.
func (d *DB) FindFogErasePointsByMapID(mapID int64) ([]*database.FogErasePoint, error) {
	return list(d, tblFogPoints, idxMapID, mapID, func(f *database.FogErasePoint) int64 { return f.ID })
}

// CreateAudioFile inserts an audio file and assigns its ID.
func (d *DB) CreateAudioFile(file *database.AudioFile) error {
	file.ID = d.nextID(tblAudioFiles)
	if file.ExternalID == "" {
		file.ExternalID = database.NewExternalID()
	}
	file.CreatedAt, file.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblAudioFiles, file.DeepCopy(), map[string]string{idxExternalID: file.ExternalID})
}

// FindAudioFileByExternalID finds an audio file by its external ID.
func (d *DB) FindAudioFileByExternalID(externalID string) (*database.AudioFile, error) {
	return first[database.AudioFile](d, tblAudioFiles, idxExternalID, database.ErrAudioFileNotFound, externalID)
}

// FindAudioFilesByGameID lists the audio files of a game.
func (d *DB) FindAudioFilesByGameID(gameID int64) ([]*database.AudioFile, error) {
	return list(d, tblAudioFiles, idxGameID, gameID, func(f *database.AudioFile) int64 { return f.ID })
}

// CreateVideoFile inserts a video file and assigns its ID.
func (d *DB) CreateVideoFile(file *database.VideoFile) error {
	file.ID = d.nextID(tblVideoFiles)
	if file.ExternalID == "" {
		file.ExternalID = database.NewExternalID()
	}
	file.CreatedAt, file.UpdatedAt = d.now(), d.now()
	return d.insertUnique(tblVideoFiles, file.DeepCopy(), map[string]string{idxExternalID: file.ExternalID})
}

// FindVideoFileByExternalID finds a video file by its external ID.
func (d *DB) FindVideoFileByExternalID(externalID string) (*database.VideoFile, error) {
	return first[database.VideoFile](d, tblVideoFiles, idxExternalID, database.ErrVideoFileNotFound, externalID)
}

// FindVideoFilesByGameID lists the video files of a game.
func (d *DB) FindVideoFilesByGameID(gameID int64) ([]*database.VideoFile, error) {
	return list(d, tblVideoFiles, idxGameID, gameID, func(f *database.VideoFile) int64 { return f.ID })
}
