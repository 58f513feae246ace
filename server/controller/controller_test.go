package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tavern/broker"
	"tavern/broker/subscription"
	"tavern/client"
	"tavern/database"
	"tavern/database/memory"
	"tavern/media"
	"tavern/pkg/socket"
	"tavern/storage"
	"tavern/types/api/response"
	"tavern/types/message"
)

func ptr(v float64) *float64 { return &v }

const storageURL = "https://s3.example.com/media/"

// expectUploads stores every upload into objects and returns its public URL.
func expectUploads(m *storage.MockStorage, objects map[string][]byte, opts *storage.UploadOptions) {
	m.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, r io.Reader, size int64, o storage.UploadOptions) (string, error) {
			b, err := io.ReadAll(r)
			if err != nil {
				return "", err
			}
			if int64(len(b)) != size {
				return "", errors.New("size mismatch")
			}
			objects[key] = b
			if opts != nil {
				*opts = o
			}
			return storageURL + key, nil
		}).AnyTimes()
}

type fixture struct {
	db      *memory.DB
	broker  *broker.Broker
	player  *media.MockPlayer
	storage *storage.MockStorage
	handler http.Handler

	game      *database.Game
	other     *database.Game
	character *database.Character
	gmap      *database.Map
	item      *database.Item
	audio     *database.AudioFile
	video     *database.VideoFile
	foreign   *database.AudioFile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		db:      memory.New(),
		broker:  broker.New(broker.Config{}),
		player:  media.NewMockPlayer(ctrl),
		storage: storage.NewMockStorage(ctrl),
	}

	master := &database.Master{Name: "Dungeon master"}
	require.NoError(t, f.db.CreateMaster(master))
	room := int64(1234)
	f.game = &database.Game{
		Name:            "Lost mine",
		MasterID:        master.ID,
		MasterJoinLink:  "m-lost-mine",
		MasterAvatarURL: "https://example.com/master.png",
		RoomID:          &room,
	}
	require.NoError(t, f.db.CreateGame(f.game))
	f.other = &database.Game{Name: "Curse of Strahd", MasterID: master.ID, MasterJoinLink: "m-strahd"}
	require.NoError(t, f.db.CreateGame(f.other))

	f.character = &database.Character{Name: "Tordek", GameID: f.game.ID, JoinLink: "tordek", Color: "#ff0000"}
	require.NoError(t, f.db.CreateCharacter(f.character))
	f.gmap = &database.Map{GameID: f.game.ID, URL: "https://example.com/map.png", XCenter: 10, YCenter: 20, Zoom: 1}
	require.NoError(t, f.db.SaveMap(f.gmap))
	f.item = &database.Item{GameID: f.game.ID, Name: "Chest", IconURL: "https://example.com/chest.png"}
	require.NoError(t, f.db.CreateItem(f.item))

	f.audio = &database.AudioFile{GameID: f.game.ID, Name: "Tavern", URL: "https://example.com/tavern.ogg", DurationSeconds: ptr(90)}
	require.NoError(t, f.db.CreateAudioFile(f.audio))
	f.video = &database.VideoFile{GameID: f.game.ID, Name: "Intro", URL: "https://example.com/intro.webm"}
	require.NoError(t, f.db.CreateVideoFile(f.video))
	f.foreign = &database.AudioFile{GameID: f.other.ID, Name: "Storm", URL: "https://example.com/storm.ogg"}
	require.NoError(t, f.db.CreateAudioFile(f.foreign))

	f.handler = New(Options{
		Database:   f.db,
		Broker:     f.broker,
		Player:     f.player,
		Storage:    f.storage,
		JanusURL:   "https://janus.example.com/janus",
		ICEServers: []response.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}},
	}).Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) path(suffix string) string {
	return "/api/game/" + f.game.ExternalID + suffix
}

func next(t *testing.T, sub *subscription.Subscription) message.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return ev
	default:
		require.FailNow(t, "no event was published")
		return message.Event{}
	}
}

func TestJoin(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		link       string
		wantStatus int
		want       string
	}{
		{
			name:       "given master link when joined then master of the game",
			link:       "m-lost-mine",
			wantStatus: http.StatusOK,
			want:       `{"game_id":"` + f.game.ExternalID + `","room_id":1234,"user_id":"master","is_master":true}`,
		},
		{
			name:       "given character link when joined then the character",
			link:       "tordek",
			wantStatus: http.StatusOK,
			want:       `{"game_id":"` + f.game.ExternalID + `","room_id":1234,"user_id":"` + f.character.ExternalID + `","is_master":false}`,
		},
		{name: "given unknown master link when joined then not found", link: "m-nope", wantStatus: http.StatusNotFound},
		{name: "given unknown character link when joined then not found", link: "nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/join/"+tt.link, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.want != "" {
				assert.JSONEq(t, tt.want, rec.Body.String())
			}
		})
	}
}

func TestMap(t *testing.T) {
	t.Run("given game when map requested then map returned", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, f.path("/map"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"external_id":"`+f.gmap.ExternalID+`","game_id":1,"url":"https://example.com/map.png","x_center":10,"y_center":20,"zoom":1}`, rec.Body.String())
	})

	t.Run("given partial update when posted then only given fields change and map is broadcast", func(t *testing.T) {
		f := newFixture(t)
		sub := f.broker.Subscribe(f.game.ExternalID)

		rec := f.do(t, http.MethodPost, f.path("/map"), `{"zoom":2.5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got database.Map
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 10.0, got.XCenter)
		assert.Equal(t, 20.0, got.YCenter)
		assert.Equal(t, 2.5, got.Zoom)

		stored, err := f.db.FindMapByGameID(f.game.ID)
		require.NoError(t, err)
		assert.Equal(t, 2.5, stored.Zoom)

		ev := next(t, sub)
		assert.Equal(t, message.MapUpdate, ev.Topic)
		assert.JSONEq(t, rec.Body.String(), string(ev.Data))
	})

	t.Run("given unknown game when map requested then not found", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, "/api/game/unknown/map", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"status":"error","message":"Not Found"}`, rec.Body.String())
	})

	t.Run("given game without map when map requested then not found", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, "/api/game/"+f.other.ExternalID+"/map", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestItems(t *testing.T) {
	t.Run("given item when moved then saved and broadcast", func(t *testing.T) {
		f := newFixture(t)
		sub := f.broker.Subscribe(f.game.ExternalID)

		rec := f.do(t, http.MethodPost, f.path("/item/"+f.item.ExternalID), `{"x":1.5,"y":-2}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"external_id":"`+f.item.ExternalID+`","name":"Chest","icon_url":"https://example.com/chest.png","x":1.5,"y":-2}`, rec.Body.String())

		ev := next(t, sub)
		assert.Equal(t, message.ItemUpdate, ev.Topic)
		assert.JSONEq(t, `{"external_id":"`+f.item.ExternalID+`","x":1.5,"y":-2}`, string(ev.Data))

		rec = f.do(t, http.MethodGet, f.path("/items"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"external_id":"`+f.item.ExternalID+`","name":"Chest","icon_url":"https://example.com/chest.png","x":1.5,"y":-2}]`, rec.Body.String())
	})

	t.Run("given null position when moved then item leaves the map", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodPost, f.path("/item/"+f.item.ExternalID), `{"x":null,"y":null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"x":null`)
	})

	t.Run("given item of another game when moved then not found", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/game/"+f.other.ExternalID+"/item/"+f.item.ExternalID, `{"x":1,"y":1}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("given malformed body when moved then bad request", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodPost, f.path("/item/"+f.item.ExternalID), `{"x":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCharacters(t *testing.T) {
	t.Run("given game when characters listed then master comes last", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, f.path("/characters"), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []response.Character
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, f.character.ExternalID, got[0].ExternalID)
		assert.Equal(t, "#ff0000", got[0].Color)
		assert.False(t, got[0].IsMaster)
		assert.Equal(t, response.NewMaster(f.game), got[1])
	})

	t.Run("given master id when character requested then synthetic master", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, f.path("/character/master"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"external_id":"master","avatar_url":"https://example.com/master.png","is_master":true,"name":"Мастер игры","color":"#ffffff","inventory":[],"x":null,"y":null}`, rec.Body.String())
	})

	t.Run("given character when moved then empty object and broadcast", func(t *testing.T) {
		f := newFixture(t)
		sub := f.broker.Subscribe(f.game.ExternalID)

		rec := f.do(t, http.MethodPost, f.path("/character/"+f.character.ExternalID), `{"x":3,"y":4}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{}`, rec.Body.String())

		ev := next(t, sub)
		assert.Equal(t, message.CharacterUpdate, ev.Topic)
		assert.JSONEq(t, `{"external_id":"`+f.character.ExternalID+`","x":3,"y":4}`, string(ev.Data))

		rec = f.do(t, http.MethodGet, f.path("/character/"+f.character.ExternalID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got response.Character
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.X)
		assert.Equal(t, 3.0, *got.X)
	})

	t.Run("given character of another game when requested then not found", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, "/api/game/"+f.other.ExternalID+"/character/"+f.character.ExternalID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDice(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantTopic  string
		wantData   string
	}{
		{
			name: "given started dice when posted then dice.start", path: "/dice/started",
			body: `{"dice_id":"d20"}`, wantStatus: http.StatusOK,
			wantTopic: message.DiceStart, wantData: `{"dice_id":"d20"}`,
		},
		{
			name: "given changed dice when posted then dice.change", path: "/dice/changed",
			body: `{"new_dice_id":"d6"}`, wantStatus: http.StatusOK,
			wantTopic: message.DiceChange, wantData: `{"new_dice_id":"d6"}`,
		},
		{
			name: "given result when posted then dice.result", path: "/dice/resulted",
			body: `{"dice_id":"d20","result":17}`, wantStatus: http.StatusOK,
			wantTopic: message.DiceResult, wantData: `{"dice_id":"d20","result":17}`,
		},
		{
			name: "given zero result when posted then dice.result", path: "/dice/resulted",
			body: `{"dice_id":"d20","result":0}`, wantStatus: http.StatusOK,
			wantTopic: message.DiceResult, wantData: `{"dice_id":"d20","result":0}`,
		},
		{name: "given missing result when posted then bad request", path: "/dice/resulted", body: `{"dice_id":"d20"}`, wantStatus: http.StatusBadRequest},
		{name: "given missing dice when posted then bad request", path: "/dice/started", body: `{}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sub := f.broker.Subscribe(f.game.ExternalID)

			rec := f.do(t, http.MethodPost, f.path(tt.path), tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantTopic == "" {
				assert.Empty(t, sub.Events())
				return
			}
			assert.JSONEq(t, `{}`, rec.Body.String())
			ev := next(t, sub)
			assert.Equal(t, tt.wantTopic, ev.Topic)
			assert.JSONEq(t, tt.wantData, string(ev.Data))
		})
	}
}

func TestFogErasePoints(t *testing.T) {
	f := newFixture(t)
	sub := f.broker.Subscribe(f.game.ExternalID)

	rec := f.do(t, http.MethodPost, f.path("/fog-erace-point"), `{"x":5,"y":6,"radius":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got response.FogErasePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5.0, got.X)
	assert.Equal(t, 6.0, got.Y)
	assert.Equal(t, 30, got.Radius)
	assert.Equal(t, f.gmap.ExternalID, got.MapExternalID)
	require.NotNil(t, got.CreatedAt)
	_, err := time.Parse(time.RFC3339, *got.CreatedAt)
	assert.NoError(t, err)

	ev := next(t, sub)
	assert.Equal(t, message.FogErasePointAdd, ev.Topic)
	assert.JSONEq(t, rec.Body.String(), string(ev.Data))

	f.do(t, http.MethodPost, f.path("/fog-erace-point"), `{"x":7,"y":8,"radius":10}`)
	rec = f.do(t, http.MethodGet, f.path("/fog-erace-points"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var points []response.FogErasePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.Equal(t, 5.0, points[0].X)
	assert.Equal(t, 7.0, points[1].X)

	rec = f.do(t, http.MethodPost, f.path("/fog-erace-point"), `{"x":7,"y":8}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayAudio(t *testing.T) {
	t.Run("given audio of the game when played then player starts it", func(t *testing.T) {
		f := newFixture(t)
		f.player.EXPECT().Play(media.Request{
			Kind:     media.Audio,
			GameID:   f.game.ExternalID,
			FileID:   f.audio.ExternalID,
			RoomID:   1234,
			URL:      f.audio.URL,
			Display:  "Audio: Tavern",
			Volume:   0.5,
			Duration: 90 * time.Second,
		}).Return(nil)

		rec := f.do(t, http.MethodPost, f.path("/audio/play"), `{"audio_external_id":"`+f.audio.ExternalID+`","volume":0.5}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"started","audio_external_id":"`+f.audio.ExternalID+`"}`, rec.Body.String())
	})

	t.Run("given no volume when played then full volume", func(t *testing.T) {
		f := newFixture(t)
		f.player.EXPECT().Play(gomock.Any()).DoAndReturn(func(req media.Request) error {
			assert.Equal(t, 1.0, req.Volume)
			return nil
		})
		rec := f.do(t, http.MethodPost, f.path("/audio/play"), `{"audio_external_id":"`+f.audio.ExternalID+`"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name       string
		game       func(f *fixture) string
		file       func(f *fixture) string
		volume     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "given volume above one when played then error status",
			game:       func(f *fixture) string { return f.game.ExternalID },
			file:       func(f *fixture) string { return f.audio.ExternalID },
			volume:     "1.5",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","message":"volume must be between 0.0 and 1.0"}`,
		},
		{
			name:       "given negative volume when played then error status",
			game:       func(f *fixture) string { return f.game.ExternalID },
			file:       func(f *fixture) string { return f.audio.ExternalID },
			volume:     "-0.1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "given audio of another game when played then not found",
			game:       func(f *fixture) string { return f.game.ExternalID },
			file:       func(f *fixture) string { return f.foreign.ExternalID },
			volume:     "1",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "given unknown audio when played then not found",
			game:       func(f *fixture) string { return f.game.ExternalID },
			file:       func(*fixture) string { return "unknown" },
			volume:     "1",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "given game without room when played then conflict",
			game:       func(f *fixture) string { return f.other.ExternalID },
			file:       func(f *fixture) string { return f.foreign.ExternalID },
			volume:     "1",
			wantStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			body := `{"audio_external_id":"` + tt.file(f) + `","volume":` + tt.volume + `}`
			rec := f.do(t, http.MethodPost, "/api/game/"+tt.game(f)+"/audio/play", body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	t.Run("given player failure when played then internal error", func(t *testing.T) {
		f := newFixture(t)
		f.player.EXPECT().Play(gomock.Any()).Return(errors.New("boom"))
		rec := f.do(t, http.MethodPost, f.path("/audio/play"), `{"audio_external_id":"`+f.audio.ExternalID+`"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStopAudio(t *testing.T) {
	tests := []struct {
		name    string
		stopped bool
		want    func(f *fixture) string
	}{
		{
			name:    "given active playback when stopped then stopped",
			stopped: true,
			want: func(f *fixture) string {
				return `{"status":"stopped","audio_external_id":"` + f.audio.ExternalID + `"}`
			},
		},
		{
			name:    "given no playback when stopped then not found status",
			stopped: false,
			want: func(f *fixture) string {
				return `{"status":"not_found","message":"no active playback of audio ` + f.audio.ExternalID + `"}`
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.player.EXPECT().Stop(media.Audio, f.game.ExternalID, f.audio.ExternalID).Return(tt.stopped)

			rec := f.do(t, http.MethodPost, f.path("/audio/stop"), `{"audio_external_id":"`+f.audio.ExternalID+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want(f), rec.Body.String())
		})
	}
}

func TestVideo(t *testing.T) {
	t.Run("given video when played then player starts it", func(t *testing.T) {
		f := newFixture(t)
		f.player.EXPECT().Play(media.Request{
			Kind:    media.Video,
			GameID:  f.game.ExternalID,
			FileID:  f.video.ExternalID,
			RoomID:  1234,
			URL:     f.video.URL,
			Display: "Video Player",
			Volume:  1,
		}).Return(nil)

		rec := f.do(t, http.MethodPost, f.path("/video/play"), `{"video_external_id":"`+f.video.ExternalID+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"started","video_external_id":"`+f.video.ExternalID+`"}`, rec.Body.String())
	})

	t.Run("given active video when stopped then stopped", func(t *testing.T) {
		f := newFixture(t)
		f.player.EXPECT().Stop(media.Video, f.game.ExternalID, f.video.ExternalID).Return(true)

		rec := f.do(t, http.MethodPost, f.path("/video/stop"), `{"video_external_id":"`+f.video.ExternalID+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"stopped","video_external_id":"`+f.video.ExternalID+`"}`, rec.Body.String())
	})

	t.Run("given missing id when played then bad request", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodPost, f.path("/video/play"), `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	t.Run("given audio file when uploaded then stored and listed", func(t *testing.T) {
		f := newFixture(t)
		objects := map[string][]byte{}
		var opts storage.UploadOptions
		expectUploads(f.storage, objects, &opts)
		body, contentType := multipartBody(t, map[string]string{"name": "Battle", "duration_seconds": "12.5"}, "battle.ogg", "OggS")
		req := httptest.NewRequest(http.MethodPost, f.path("/audio-files"), body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got response.MediaFile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Battle", got.Name)
		assert.Len(t, got.ExternalID, 32)

		stored, err := f.db.FindAudioFileByExternalID(got.ExternalID)
		require.NoError(t, err)
		key := "games/" + f.game.ExternalID + "/audio/" + got.ExternalID + ".ogg"
		assert.Equal(t, storageURL+key, stored.URL)
		require.NotNil(t, stored.DurationSeconds)
		assert.Equal(t, 12.5, *stored.DurationSeconds)
		assert.Equal(t, []byte("OggS"), objects[key])
		assert.True(t, opts.Public)

		rec = f.do(t, http.MethodGet, f.path("/audio-files"), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"external_id":"`+f.audio.ExternalID+`","name":"Tavern"},{"external_id":"`+got.ExternalID+`","name":"Battle"}]`, rec.Body.String())
	})

	t.Run("given video without name when uploaded then file name is used", func(t *testing.T) {
		f := newFixture(t)
		expectUploads(f.storage, map[string][]byte{}, nil)
		body, contentType := multipartBody(t, nil, "intro.webm", "webm")
		req := httptest.NewRequest(http.MethodPost, f.path("/video-files"), body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"intro.webm"`)
	})

	t.Run("given no file when uploaded then bad request", func(t *testing.T) {
		f := newFixture(t)
		body, contentType := multipartBody(t, map[string]string{"name": "x"}, "", "")
		req := httptest.NewRequest(http.MethodPost, f.path("/audio-files"), body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	for _, duration := range []string{"long", "-1", "NaN", "Inf", "1e300"} {
		t.Run("given duration "+duration+" when uploaded then bad request", func(t *testing.T) {
			f := newFixture(t)
			body, contentType := multipartBody(t, map[string]string{"duration_seconds": duration}, "a.ogg", "OggS")
			req := httptest.NewRequest(http.MethodPost, f.path("/audio-files"), body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)
			// no Upload call is expected on the storage mock
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("given record failure when uploaded then the object is deleted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := database.NewMockDatabase(ctrl)
		store := storage.NewMockStorage(ctrl)
		game := &database.Game{ID: 7, ExternalID: "g7"}
		objects := map[string][]byte{}
		expectUploads(store, objects, nil)
		db.EXPECT().FindGameByExternalID("g7").Return(game, nil)
		db.EXPECT().CreateAudioFile(gomock.Any()).Return(errors.New("disk full"))
		var deleted string
		store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string) error {
			deleted = key
			return nil
		})

		h := New(Options{Database: db, Broker: broker.New(broker.Config{}), Player: media.NewMockPlayer(ctrl), Storage: store}).Handler()
		body, contentType := multipartBody(t, nil, "a.ogg", "OggS")
		req := httptest.NewRequest(http.MethodPost, "/api/game/g7/audio-files", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Len(t, objects, 1)
		for key := range objects {
			assert.Equal(t, key, deleted)
		}
	})

	t.Run("given no storage when uploaded then unavailable", func(t *testing.T) {
		f := newFixture(t)
		h := New(Options{Database: f.db, Broker: f.broker, Player: f.player}).Handler()
		body, contentType := multipartBody(t, nil, "a.ogg", "OggS")
		req := httptest.NewRequest(http.MethodPost, f.path("/audio-files"), body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRoomOptions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       string
	}{
		{
			name:       "given every flag when requested then normalised",
			query:      "?room=1234&simulcast=yes&svc=L1T3&acodec=opus&vcodec=vp8&dtx=true&subscriber-mode=yes&msid=no",
			wantStatus: http.StatusOK,
			want: `{"room":1234,"simulcast":true,"svc":"L1T3","acodec":"opus","vcodec":"vp8","dtx":true,"subscriber_mode":true,"msid":false,` +
				`"janus_url":"https://janus.example.com/janus","ice_servers":[{"urls":["stun:stun.example.com:3478"]}]}`,
		},
		{
			name:       "given no flags when requested then defaults",
			wantStatus: http.StatusOK,
			want: `{"room":null,"simulcast":false,"dtx":false,"subscriber_mode":false,"msid":false,` +
				`"janus_url":"https://janus.example.com/janus","ice_servers":[{"urls":["stun:stun.example.com:3478"]}]}`,
		},
		{name: "given non numeric room when requested then bad request", query: "?room=abc", wantStatus: http.StatusBadRequest},
		{name: "given negative room when requested then bad request", query: "?room=-1", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodGet, "/api/room-options"+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.want != "" {
				assert.JSONEq(t, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStream(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(srv.URL, f.game.ExternalID)
	require.NoError(t, c.Dial(ctx))
	defer c.Close()

	first, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, message.MapUpdate, first.Topic)
	var gmap database.Map
	require.NoError(t, first.Decode(&gmap))
	assert.Equal(t, f.gmap.ExternalID, gmap.ExternalID)
	assert.Equal(t, 1, f.broker.Subscribers(f.game.ExternalID))

	res, err := http.Post(srv.URL+f.path("/dice/started"), "application/json", strings.NewReader(`{"dice_id":"d12"}`))
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)

	ev, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, message.DiceStart, ev.Topic)
	assert.JSONEq(t, `{"dice_id":"d12"}`, string(ev.Data))

	require.NoError(t, c.Close())
	assert.Eventually(t, func() bool {
		return f.broker.Subscribers(f.game.ExternalID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// mapReadHook runs onRead while the map of a game is being read.
type mapReadHook struct {
	*memory.DB
	onRead func()
}

func (h *mapReadHook) FindMapByGameID(gameID int64) (*database.Map, error) {
	gmap, err := h.DB.FindMapByGameID(gameID)
	h.onRead()
	return gmap, err
}

func TestStreamKeepsUpdatesPublishedWhileReadingMap(t *testing.T) {
	f := newFixture(t)
	moved := *f.gmap
	moved.Zoom = 3
	update, err := message.New(message.MapUpdate, &moved)
	require.NoError(t, err)

	db := &mapReadHook{DB: f.db, onRead: func() {
		assert.NoError(t, f.broker.Publish(f.game.ExternalID, update))
	}}
	srv := httptest.NewServer(New(Options{Database: db, Broker: f.broker, Player: f.player, Storage: f.storage}).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := client.New(srv.URL, f.game.ExternalID)
	require.NoError(t, c.Dial(ctx))
	defer c.Close()

	var stale, fresh database.Map
	first, err := c.Next()
	require.NoError(t, err)
	require.NoError(t, first.Decode(&stale))
	assert.Equal(t, float64(1), stale.Zoom)

	second, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, message.MapUpdate, second.Topic)
	require.NoError(t, second.Decode(&fresh))
	assert.Equal(t, float64(3), fresh.Zoom)
}

func TestStreamUnknownGame(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/ws/game/unknown/get", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe(t *testing.T) {
	ev, err := message.New(message.DiceStart, message.DiceStarted{DiceID: "d4"})
	require.NoError(t, err)

	t.Run("given write failure when serving then error returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ws := socket.NewMockSocket(ctrl)
		release := make(chan struct{})
		defer close(release)
		errWrite := errors.New("broken pipe")

		ws.EXPECT().ReadMessage().DoAndReturn(func() ([]byte, error) {
			<-release
			return nil, errors.New("closed")
		}).AnyTimes()
		ws.EXPECT().WriteJSON(ev).Return(errWrite)

		sub := subscription.New(1)
		require.True(t, sub.Send(ev))
		assert.ErrorIs(t, serve(ws, sub), errWrite)
	})

	t.Run("given dropped subscription when serving then stream ends", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ws := socket.NewMockSocket(ctrl)
		release := make(chan struct{})
		defer close(release)

		ws.EXPECT().ReadMessage().DoAndReturn(func() ([]byte, error) {
			<-release
			return nil, errors.New("closed")
		}).AnyTimes()

		sub := subscription.New(1)
		sub.Close()
		assert.NoError(t, serve(ws, sub))
	})

	t.Run("given client gone when serving then stream ends", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ws := socket.NewMockSocket(ctrl)
		ws.EXPECT().ReadMessage().Return([]byte("ping"), nil)
		ws.EXPECT().ReadMessage().Return(nil, errors.New("closed"))

		assert.NoError(t, serve(ws, subscription.New(1)))
	})
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want time.Duration
	}{
		{name: "given no duration when converted then unlimited", in: nil, want: 0},
		{name: "given negative duration when converted then unlimited", in: ptr(-3), want: 0},
		{name: "given NaN when converted then unlimited", in: ptr(math.NaN()), want: 0},
		{name: "given fractional seconds when converted then kept", in: ptr(1.5), want: 1500 * time.Millisecond},
		{name: "given a huge duration when converted then clamped to a day", in: ptr(1e300), want: 24 * time.Hour},
		{name: "given infinity when converted then clamped to a day", in: ptr(math.Inf(1)), want: 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seconds(tt.in))
		})
	}
}
