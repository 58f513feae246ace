package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"tavern/types/api/request"
	"tavern/types/api/response"
)

func (c *Controller) roomOptions(ctx *gin.Context) {
	var q request.RoomOptions
	if err := ctx.ShouldBindQuery(&q); err != nil {
		c.Error(ctx, err, http.StatusBadRequest)
		return
	}

	res := response.RoomOptions{
		Simulcast:      enabled(q.Simulcast),
		SVC:            q.SVC,
		AudioCodec:     q.AudioCodec,
		VideoCodec:     q.VideoCodec,
		DTX:            enabled(q.DTX),
		SubscriberMode: enabled(q.SubscriberMode),
		MSID:           enabled(q.MSID),
		JanusURL:       c.janusURL,
		ICEServers:     c.iceServers,
	}
	if q.Room != "" {
		room, err := strconv.ParseInt(q.Room, 10, 64)
		if err != nil || room <= 0 {
			c.Error(ctx, fmt.Errorf("invalid room %q", q.Room), http.StatusBadRequest)
			return
		}
		res.Room = &room
	}
	ctx.JSON(http.StatusOK, res)
}

// enabled reads a boolean query flag the way the room page writes them.
func enabled(v string) bool {
	return v == "yes" || v == "true"
}
