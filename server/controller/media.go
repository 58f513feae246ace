package controller

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"tavern/database"
	"tavern/media"
	"tavern/storage"
	"tavern/types/api/request"
	"tavern/types/api/response"
)

const defaultContentType = "application/octet-stream"

func (c *Controller) listAudioFiles(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	files, err := c.database.FindAudioFilesByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	res := make([]response.MediaFile, 0, len(files))
	for _, f := range files {
		res = append(res, response.MediaFile{ExternalID: f.ExternalID, Name: f.Name})
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) listVideoFiles(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	files, err := c.database.FindVideoFilesByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	res := make([]response.MediaFile, 0, len(files))
	for _, f := range files {
		res = append(res, response.MediaFile{ExternalID: f.ExternalID, Name: f.Name})
	}
	ctx.JSON(http.StatusOK, res)
}

// upload is a media file stored in the object storage but not yet recorded.
type upload struct {
	externalID string
	key        string
	name       string
	url        string
	duration   *float64
}

// store reads the multipart form and uploads its file. On failure the response is written.
func (c *Controller) store(ctx *gin.Context, game *database.Game, kind media.Kind) (*upload, bool) {
	if c.storage == nil {
		c.fail(ctx, storage.ErrNotConfigured)
		return nil, false
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadSize)
	fh, err := ctx.FormFile("file")
	if err != nil {
		c.Error(ctx, fmt.Errorf("file: %w", err), http.StatusBadRequest)
		return nil, false
	}

	up := &upload{
		externalID: database.NewExternalID(),
		name:       ctx.PostForm("name"),
	}
	if up.name == "" {
		up.name = fh.Filename
	}
	if s := ctx.PostForm("duration_seconds"); s != "" {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(d) || d < 0 || d > maxDurationSeconds {
			c.Error(ctx, fmt.Errorf("invalid duration_seconds %q", s), http.StatusBadRequest)
			return nil, false
		}
		up.duration = &d
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(ctx, fmt.Errorf("open upload: %w", err), http.StatusInternalServerError)
		return nil, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close upload: %v", err)
		}
	}()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	up.key = path.Join("games", game.ExternalID, string(kind), up.externalID+path.Ext(fh.Filename))
	up.url, err = c.storage.Upload(ctx.Request.Context(), up.key, f, fh.Size, storage.UploadOptions{
		ContentType: contentType,
		Public:      true,
	})
	if err != nil {
		c.fail(ctx, fmt.Errorf("upload %s: %w", up.key, err))
		return nil, false
	}
	return up, true
}

// discard removes an uploaded object whose record could not be created.
func (c *Controller) discard(ctx *gin.Context, up *upload) {
	if err := c.storage.Delete(ctx.Request.Context(), up.key); err != nil {
		log.Warn().Err(err).Str("key", up.key).Msg("failed to delete orphaned upload")
	}
}

func (c *Controller) uploadAudioFile(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	up, ok := c.store(ctx, game, media.Audio)
	if !ok {
		return
	}
	file := &database.AudioFile{
		ExternalID:      up.externalID,
		GameID:          game.ID,
		Name:            up.name,
		URL:             up.url,
		DurationSeconds: up.duration,
	}
	if err := c.database.CreateAudioFile(file); err != nil {
		c.discard(ctx, up)
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response.MediaFile{ExternalID: file.ExternalID, Name: file.Name})
}

func (c *Controller) uploadVideoFile(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	up, ok := c.store(ctx, game, media.Video)
	if !ok {
		return
	}
	file := &database.VideoFile{
		ExternalID:      up.externalID,
		GameID:          game.ID,
		Name:            up.name,
		URL:             up.url,
		DurationSeconds: up.duration,
	}
	if err := c.database.CreateVideoFile(file); err != nil {
		c.discard(ctx, up)
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response.MediaFile{ExternalID: file.ExternalID, Name: file.Name})
}

func (c *Controller) audioFile(ctx *gin.Context, game *database.Game, externalID string) (*database.AudioFile, bool) {
	file, err := c.database.FindAudioFileByExternalID(externalID)
	if err == nil && file.GameID != game.ID {
		err = fmt.Errorf("audio %s belongs to another game: %w", externalID, database.ErrAudioFileNotFound)
	}
	if err != nil {
		c.fail(ctx, err)
		return nil, false
	}
	return file, true
}

func (c *Controller) videoFile(ctx *gin.Context, game *database.Game, externalID string) (*database.VideoFile, bool) {
	file, err := c.database.FindVideoFileByExternalID(externalID)
	if err == nil && file.GameID != game.ID {
		err = fmt.Errorf("video %s belongs to another game: %w", externalID, database.ErrVideoFileNotFound)
	}
	if err != nil {
		c.fail(ctx, err)
		return nil, false
	}
	return file, true
}

// play starts the playback. On failure the response is written.
func (c *Controller) play(ctx *gin.Context, game *database.Game, req media.Request) bool {
	if req.Volume < 0 || req.Volume > 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, response.Error{
			Status:  response.StatusError,
			Message: media.ErrInvalidVolume.Error(),
		})
		return false
	}
	if !game.HasRoom() {
		c.Error(ctx, fmt.Errorf("game %s: %w", game.ExternalID, media.ErrNoRoom), http.StatusConflict)
		return false
	}
	req.RoomID = *game.RoomID

	if err := c.player.Play(req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, media.ErrInvalidVolume) {
			status = http.StatusBadRequest
		}
		c.Error(ctx, err, status)
		return false
	}
	return true
}

func (c *Controller) playAudio(ctx *gin.Context) {
	var req request.PlayAudio
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	file, ok := c.audioFile(ctx, game, req.AudioExternalID)
	if !ok {
		return
	}

	if !c.play(ctx, game, media.Request{
		Kind:     media.Audio,
		GameID:   game.ExternalID,
		FileID:   file.ExternalID,
		URL:      file.URL,
		Display:  "Audio: " + file.Name,
		Volume:   req.VolumeOrDefault(),
		Duration: seconds(file.DurationSeconds),
	}) {
		return
	}
	ctx.JSON(http.StatusOK, response.Playback{Status: response.StatusStarted, AudioExternalID: file.ExternalID})
}

func (c *Controller) stopAudio(ctx *gin.Context) {
	var req request.PlayAudio
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	file, ok := c.audioFile(ctx, game, req.AudioExternalID)
	if !ok {
		return
	}

	if !c.player.Stop(media.Audio, game.ExternalID, file.ExternalID) {
		ctx.JSON(http.StatusOK, response.Playback{
			Status:  response.StatusNotFound,
			Message: "no active playback of audio " + file.ExternalID,
		})
		return
	}
	ctx.JSON(http.StatusOK, response.Playback{Status: response.StatusStopped, AudioExternalID: file.ExternalID})
}

func (c *Controller) playVideo(ctx *gin.Context) {
	var req request.PlayVideo
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	file, ok := c.videoFile(ctx, game, req.VideoExternalID)
	if !ok {
		return
	}

	if !c.play(ctx, game, media.Request{
		Kind:     media.Video,
		GameID:   game.ExternalID,
		FileID:   file.ExternalID,
		URL:      file.URL,
		Display:  "Video Player",
		Volume:   1,
		Duration: seconds(file.DurationSeconds),
	}) {
		return
	}
	ctx.JSON(http.StatusOK, response.Playback{Status: response.StatusStarted, VideoExternalID: file.ExternalID})
}

func (c *Controller) stopVideo(ctx *gin.Context) {
	var req request.PlayVideo
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	file, ok := c.videoFile(ctx, game, req.VideoExternalID)
	if !ok {
		return
	}

	if !c.player.Stop(media.Video, game.ExternalID, file.ExternalID) {
		ctx.JSON(http.StatusOK, response.Playback{
			Status:  response.StatusNotFound,
			Message: "no active playback of video " + file.ExternalID,
		})
		return
	}
	ctx.JSON(http.StatusOK, response.Playback{Status: response.StatusStopped, VideoExternalID: file.ExternalID})
}

// maxDurationSeconds caps playback durations well below the time.Duration range.
const maxDurationSeconds = 24 * 60 * 60

// seconds converts a stored duration, clamped to maxDurationSeconds. Zero means
// no limit.
func seconds(s *float64) time.Duration {
	if s == nil || !(*s > 0) {
		return 0
	}
	return time.Duration(math.Min(*s, maxDurationSeconds) * float64(time.Second))
}
