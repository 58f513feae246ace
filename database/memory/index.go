// Package memory provides an in-memory database implementation.
package memory

import "github.com/hashicorp/go-memdb"

const (
	tblMasters    = "masters"
	tblGames      = "games"
	tblCharacters = "characters"
	tblMaps       = "maps"
	tblItems      = "items"
	tblFogPoints  = "fog_erase_points"
	tblAudioFiles = "audio_files"
	tblVideoFiles = "video_files"
)

const (
	idxID         = "id"
	idxExternalID = "external_id"
	idxGameID     = "game_id"
	idxMapID      = "map_id"
	idxMasterLink = "master_link"
	idxJoinLink   = "join_link"
)

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    idxID,
		Unique:  true,
		Indexer: &memdb.IntFieldIndex{Field: "ID"},
	}
}

func externalIDIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    idxExternalID,
		Unique:  true,
		Indexer: &memdb.StringFieldIndex{Field: "ExternalID"},
	}
}

func foreignIndex(name, field string, unique bool) *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    name,
		Unique:  unique,
		Indexer: &memdb.IntFieldIndex{Field: field},
	}
}

func linkIndex(name, field string) *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:         name,
		Unique:       true,
		AllowMissing: true,
		Indexer:      &memdb.StringFieldIndex{Field: field},
	}
}

// schema is the schema of the memory database.
var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblMasters: {
			Name: tblMasters,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: idIndex(),
			},
		},
		tblGames: {
			Name: tblGames,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:         idIndex(),
				idxExternalID: externalIDIndex(),
				idxMasterLink: linkIndex(idxMasterLink, "MasterJoinLink"),
			},
		},
		tblCharacters: {
			Name: tblCharacters,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:         idIndex(),
				idxExternalID: externalIDIndex(),
				idxJoinLink:   linkIndex(idxJoinLink, "JoinLink"),
				idxGameID:     foreignIndex(idxGameID, "GameID", false),
			},
		},
		tblMaps: {
			Name: tblMaps,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:     idIndex(),
				idxGameID: foreignIndex(idxGameID, "GameID", true),
			},
		},
		tblItems: {
			Name: tblItems,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:         idIndex(),
				idxExternalID: externalIDIndex(),
				idxGameID:     foreignIndex(idxGameID, "GameID", false),
			},
		},
		tblFogPoints: {
			Name: tblFogPoints,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:    idIndex(),
				idxMapID: foreignIndex(idxMapID, "MapID", false),
			},
		},
		tblAudioFiles: {
			Name: tblAudioFiles,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:         idIndex(),
				idxExternalID: externalIDIndex(),
				idxGameID:     foreignIndex(idxGameID, "GameID", false),
			},
		},
		tblVideoFiles: {
			Name: tblVideoFiles,
			Indexes: map[string]*memdb.IndexSchema{
				idxID:         idIndex(),
				idxExternalID: externalIDIndex(),
				idxGameID:     foreignIndex(idxGameID, "GameID", false),
			},
		},
	},
}
