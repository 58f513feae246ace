// Package controller handles HTTP logic.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"tavern/database"
	"tavern/media"
	"tavern/storage"
	"tavern/types/api/response"
	"tavern/types/message"
)

const (
	defaultMaxUploadSize = 512 << 20 // 512 MB
)

// Options are the dependencies and settings of a Controller.
type Options struct {
	Database    database.Database
	Broker      Broker
	Player      media.Player
	Storage     storage.Storage // nil disables uploads
	Connections Connections

	Debug         bool
	JanusURL      string
	ICEServers    []response.ICEServer
	MaxUploadSize int64
}

// Controller handles HTTP requests.
type Controller struct {
	database    database.Database
	broker      Broker
	player      media.Player
	storage     storage.Storage
	connections Connections

	debug         bool
	janusURL      string
	iceServers    []response.ICEServer
	maxUploadSize int64
}

// New creates a new instance of Controller.
func New(opts Options) *Controller {
	c := &Controller{
		database:      opts.Database,
		broker:        opts.Broker,
		player:        opts.Player,
		storage:       opts.Storage,
		connections:   opts.Connections,
		debug:         opts.Debug,
		janusURL:      opts.JanusURL,
		iceServers:    opts.ICEServers,
		maxUploadSize: opts.MaxUploadSize,
	}
	if c.connections == nil {
		c.connections = nopConnections{}
	}
	if c.maxUploadSize <= 0 {
		c.maxUploadSize = defaultMaxUploadSize
	}
	if c.iceServers == nil {
		c.iceServers = []response.ICEServer{}
	}
	return c
}

// Handler returns the router serving every route of the API.
func (c *Controller) Handler() http.Handler {
	if !c.debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", c.health)
	r.GET("/ws/game/:game/get", c.stream)

	api := r.Group("/api")
	api.GET("/join/:link", c.join)
	api.GET("/room-options", c.roomOptions)

	g := api.Group("/game/:game")
	g.GET("/map", c.getMap)
	g.POST("/map", c.updateMap)
	g.GET("/items", c.listItems)
	g.POST("/item/:item", c.moveItem)
	g.GET("/characters", c.listCharacters)
	g.GET("/character/:character", c.getCharacter)
	g.POST("/character/:character", c.moveCharacter)

	g.POST("/dice/started", c.diceStarted)
	g.POST("/dice/changed", c.diceChanged)
	g.POST("/dice/resulted", c.diceResulted)

	g.POST("/fog-erace-point", c.addFogErasePoint)
	g.GET("/fog-erace-points", c.listFogErasePoints)

	g.GET("/audio-files", c.listAudioFiles)
	g.POST("/audio-files", c.uploadAudioFile)
	g.GET("/video-files", c.listVideoFiles)
	g.POST("/video-files", c.uploadVideoFile)

	g.POST("/audio/play", c.playAudio)
	g.POST("/audio/stop", c.stopAudio)
	g.POST("/video/play", c.playVideo)
	g.POST("/video/stop", c.stopVideo)

	return r
}

func (c *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": response.StatusOK})
}

// Error writes the error response. The error text is only exposed in debug mode.
func (c *Controller) Error(ctx *gin.Context, err error, status int) {
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("path", ctx.Request.URL.Path).Int("status", status).Msg("request failed")

	msg := http.StatusText(status)
	if c.debug {
		msg = err.Error()
	}
	ctx.AbortWithStatusJSON(status, response.Error{Status: response.StatusError, Message: msg})
}

// fail writes the error with the status matching its kind.
func (c *Controller) fail(ctx *gin.Context, err error) {
	c.Error(ctx, err, statusOf(err))
}

var notFound = []error{
	database.ErrMasterNotFound,
	database.ErrGameNotFound,
	database.ErrCharacterNotFound,
	database.ErrMapNotFound,
	database.ErrItemNotFound,
	database.ErrAudioFileNotFound,
	database.ErrVideoFileNotFound,
}

func statusOf(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, database.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// game loads the game named by the route. On failure the response is written.
func (c *Controller) game(ctx *gin.Context) (*database.Game, bool) {
	game, err := c.database.FindGameByExternalID(ctx.Param("game"))
	if err != nil {
		c.fail(ctx, err)
		return nil, false
	}
	return game, true
}

// bind decodes the JSON body. On failure the response is written.
func (c *Controller) bind(ctx *gin.Context, v any) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		c.Error(ctx, err, http.StatusBadRequest)
		return false
	}
	return true
}

// broadcast publishes the event to the subscribers of the game. Delivery
// failures never fail the request that caused them.
func (c *Controller) broadcast(gameID, topic string, data any) {
	ev, err := message.New(topic, data)
	if err != nil {
		log.Error().Err(err).Str("game", gameID).Msg("failed to encode event")
		return
	}
	if err := c.broker.Publish(gameID, ev); err != nil {
		log.Warn().Err(err).Str("game", gameID).Str("topic", topic).Msg("failed to relay event")
	}
}

func empty(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{})
}
