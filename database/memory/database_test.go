package memory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tavern/database"
	"tavern/database/memory"
)

func ptr(v float64) *float64 { return &v }

func seedGame(t *testing.T, db *memory.DB, link string) *database.Game {
	t.Helper()
	master := &database.Master{Name: "Dungeon master"}
	require.NoError(t, db.CreateMaster(master))
	room := int64(1001)
	game := &database.Game{Name: "Lost mine", MasterID: master.ID, MasterJoinLink: link, RoomID: &room}
	require.NoError(t, db.CreateGame(game))
	return game
}

func TestGames(t *testing.T) {
	t.Run("given created game when found by keys then return copies", func(t *testing.T) {
		db := memory.New()
		game := seedGame(t, db, "m-secret")

		assert.Len(t, game.ExternalID, 32)

		byExternal, err := db.FindGameByExternalID(game.ExternalID)
		require.NoError(t, err)
		assert.Equal(t, game.ID, byExternal.ID)

		byLink, err := db.FindGameByMasterLink("m-secret")
		require.NoError(t, err)
		assert.Equal(t, game.ExternalID, byLink.ExternalID)

		*byLink.RoomID = 7
		again, err := db.FindGameByID(game.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1001), *again.RoomID)
	})

	t.Run("given unknown game when found then return not found", func(t *testing.T) {
		db := memory.New()
		_, err := db.FindGameByExternalID("nope")
		assert.True(t, errors.Is(err, database.ErrGameNotFound))
		_, err = db.FindGameByMasterLink("m-nope")
		assert.ErrorIs(t, err, database.ErrGameNotFound)
	})

	t.Run("given duplicate master link when created then return already exists", func(t *testing.T) {
		db := memory.New()
		seedGame(t, db, "m-dup")
		err := db.CreateGame(&database.Game{Name: "other", MasterJoinLink: "m-dup"})
		assert.ErrorIs(t, err, database.ErrAlreadyExists)
	})
}

func TestCharacters(t *testing.T) {
	db := memory.New()
	game := seedGame(t, db, "m-1")
	other := seedGame(t, db, "m-2")

	first := &database.Character{Name: "Aria", GameID: game.ID, JoinLink: "aria",
		Inventory: database.Inventory{{ID: "1", Name: "Rope", Quantity: 2}}}
	second := &database.Character{Name: "Brom", GameID: game.ID, JoinLink: "brom", Color: "#ff0000"}
	stranger := &database.Character{Name: "Cid", GameID: other.ID, JoinLink: "cid"}
	for _, c := range []*database.Character{first, second, stranger} {
		require.NoError(t, db.CreateCharacter(c))
	}

	t.Run("given characters of two games when listed then return only the game ones in order", func(t *testing.T) {
		chars, err := db.FindCharactersByGameID(game.ID)
		require.NoError(t, err)
		require.Len(t, chars, 2)
		assert.Equal(t, "Aria", chars[0].Name)
		assert.Equal(t, "Brom", chars[1].Name)
		assert.Equal(t, database.DefaultCharacterColor, chars[0].Color)
		assert.Equal(t, "Rope", chars[0].Inventory[0].Name)
	})

	t.Run("given join link when found then return character", func(t *testing.T) {
		c, err := db.FindCharacterByJoinLink("brom")
		require.NoError(t, err)
		assert.Equal(t, second.ExternalID, c.ExternalID)
	})

	t.Run("given new position when updated then persist it", func(t *testing.T) {
		moved, err := db.UpdateCharacterPosition(first.ExternalID, ptr(10.5), ptr(-3))
		require.NoError(t, err)
		assert.Equal(t, 10.5, *moved.X)

		found, err := db.FindCharacterByExternalID(first.ExternalID)
		require.NoError(t, err)
		assert.Equal(t, -3.0, *found.Y)
	})

	t.Run("given unknown character when moved then return not found", func(t *testing.T) {
		_, err := db.UpdateCharacterPosition("ghost", nil, nil)
		assert.ErrorIs(t, err, database.ErrCharacterNotFound)
	})
}

func TestMapsAndFog(t *testing.T) {
	db := memory.New()
	game := seedGame(t, db, "m-map")

	gmap := &database.Map{GameID: game.ID, URL: "https://maps/cave.png", Zoom: 1}
	require.NoError(t, db.SaveMap(gmap))
	assert.NotZero(t, gmap.ID)

	t.Run("given second map for the same game when saved then return already exists", func(t *testing.T) {
		err := db.SaveMap(&database.Map{GameID: game.ID})
		assert.ErrorIs(t, err, database.ErrAlreadyExists)
	})

	t.Run("given moved map when saved then persist the new viewport", func(t *testing.T) {
		found, err := db.FindMapByGameID(game.ID)
		require.NoError(t, err)
		found.Move(ptr(100), nil, ptr(2))
		require.NoError(t, db.SaveMap(found))

		again, err := db.FindMapByGameID(game.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, again.XCenter)
		assert.Equal(t, 0.0, again.YCenter)
		assert.Equal(t, 2.0, again.Zoom)
	})

	t.Run("given fog points when listed then return them in creation order", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			_, err := db.AddFogErasePoint(gmap.ID, float64(i), float64(i), 10+i)
			require.NoError(t, err)
		}
		points, err := db.FindFogErasePointsByMapID(gmap.ID)
		require.NoError(t, err)
		require.Len(t, points, 12)
		for i, p := range points {
			assert.Equal(t, 10+i, p.Radius)
			assert.False(t, p.CreatedAt.IsZero())
		}
	})
}

func TestItemsAndFiles(t *testing.T) {
	db := memory.New()
	game := seedGame(t, db, "m-items")

	item := &database.Item{GameID: game.ID, Name: "Chest", IconURL: "chest.png"}
	require.NoError(t, db.CreateItem(item))

	moved, err := db.UpdateItemPosition(item.ExternalID, ptr(1), ptr(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, *moved.Y)

	items, err := db.FindItemsByGameID(game.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, *items[0].X)

	audio := &database.AudioFile{GameID: game.ID, Name: "Tavern", URL: "s3://tavern.ogg", DurationSeconds: ptr(30)}
	require.NoError(t, db.CreateAudioFile(audio))
	video := &database.VideoFile{GameID: game.ID, Name: "Intro", URL: "s3://intro.webm"}
	require.NoError(t, db.CreateVideoFile(video))

	foundAudio, err := db.FindAudioFileByExternalID(audio.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, *foundAudio.DurationSeconds)

	videos, err := db.FindVideoFilesByGameID(game.ID)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	assert.Nil(t, videos[0].DurationSeconds)

	_, err = db.FindVideoFileByExternalID(audio.ExternalID)
	assert.ErrorIs(t, err, database.ErrVideoFileNotFound)
}
