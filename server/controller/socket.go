package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"tavern/broker/subscription"
	"tavern/database"
	"tavern/pkg/socket"
	"tavern/types/message"
)

// stream upgrades the request and streams the events of the game until the
// client goes away. Incoming frames are ignored.
func (c *Controller) stream(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	// subscribe first so no update published while the map is read gets lost
	sub := c.broker.Subscribe(game.ExternalID)
	defer c.broker.Unsubscribe(game.ExternalID, sub)

	gmap, err := c.database.FindMapByGameID(game.ID)
	if err != nil && !errors.Is(err, database.ErrMapNotFound) {
		c.fail(ctx, err)
		return
	}

	ws, err := socket.New(ctx.Writer, ctx.Request)
	if err != nil {
		log.Warn().Err(err).Str("game", game.ExternalID).Msg("failed to upgrade websocket")
		return
	}
	c.connections.IncrementWebSocketConnections()
	defer c.connections.DecrementWebSocketConnections()
	defer func() {
		if err := ws.Close(); err != nil {
			log.Printf("failed to close websocket: %v", err)
		}
	}()

	logger := log.With().Str("game", game.ExternalID).Logger()
	logger.Info().Msg("event stream opened")
	defer logger.Info().Msg("event stream closed")

	if gmap != nil {
		ev, err := message.New(message.MapUpdate, gmap)
		if err != nil {
			logger.Error().Err(err).Msg("failed to encode map")
			return
		}
		if err := ws.WriteJSON(ev); err != nil {
			logger.Debug().Err(err).Msg("failed to send map")
			return
		}
	}

	if err := serve(ws, sub); err != nil {
		logger.Debug().Err(err).Msg("event stream write failed")
	}
}

// serve writes the events of sub until the client disconnects or the
// subscription is dropped.
func serve(ws socket.Socket, sub *subscription.Subscription) error {
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(ev); err != nil {
				return err
			}
		}
	}
}
