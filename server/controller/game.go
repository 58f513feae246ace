package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"tavern/database"
	"tavern/types/api/request"
	"tavern/types/api/response"
	"tavern/types/message"
)

func (c *Controller) join(ctx *gin.Context) {
	link := ctx.Param("link")

	if database.IsMasterLink(link) {
		game, err := c.database.FindGameByMasterLink(link)
		if err != nil {
			c.fail(ctx, err)
			return
		}
		if _, err := c.database.FindMasterByID(game.MasterID); err != nil {
			c.fail(ctx, fmt.Errorf("master of game %s: %w", game.ExternalID, err))
			return
		}
		ctx.JSON(http.StatusOK, response.Join{
			GameID:   game.ExternalID,
			RoomID:   game.RoomID,
			UserID:   database.MasterUserID,
			IsMaster: true,
		})
		return
	}

	character, err := c.database.FindCharacterByJoinLink(link)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	game, err := c.database.FindGameByID(character.GameID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Join{
		GameID: game.ExternalID,
		RoomID: game.RoomID,
		UserID: character.ExternalID,
	})
}

func (c *Controller) getMap(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	gmap, err := c.database.FindMapByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gmap)
}

func (c *Controller) updateMap(ctx *gin.Context) {
	var req request.MapUpdate
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	gmap, err := c.database.FindMapByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	gmap.Move(req.XCenter, req.YCenter, req.Zoom)
	if err := c.database.SaveMap(gmap); err != nil {
		c.fail(ctx, err)
		return
	}

	c.broadcast(game.ExternalID, message.MapUpdate, gmap)
	ctx.JSON(http.StatusOK, gmap)
}

func (c *Controller) listItems(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	items, err := c.database.FindItemsByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	res := make([]response.Item, 0, len(items))
	for _, item := range items {
		res = append(res, response.NewItem(item))
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) moveItem(ctx *gin.Context) {
	var req request.Position
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	item, err := c.database.FindItemByExternalID(ctx.Param("item"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	if item.GameID != game.ID {
		c.fail(ctx, fmt.Errorf("item %s belongs to another game: %w", item.ExternalID, database.ErrItemNotFound))
		return
	}

	item, err = c.database.UpdateItemPosition(item.ExternalID, req.X, req.Y)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	c.broadcast(game.ExternalID, message.ItemUpdate, message.Position{ExternalID: item.ExternalID, X: item.X, Y: item.Y})
	ctx.JSON(http.StatusOK, response.NewItem(item))
}

func (c *Controller) listCharacters(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	characters, err := c.database.FindCharactersByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	res := make([]response.Character, 0, len(characters)+1)
	for _, character := range characters {
		res = append(res, response.NewCharacter(character))
	}
	res = append(res, response.NewMaster(game))
	ctx.JSON(http.StatusOK, res)
}

// character loads the character named by the route and checks it plays in game.
func (c *Controller) character(ctx *gin.Context, game *database.Game) (*database.Character, bool) {
	character, err := c.database.FindCharacterByExternalID(ctx.Param("character"))
	if err != nil {
		c.fail(ctx, err)
		return nil, false
	}
	if character.GameID != game.ID {
		c.fail(ctx, fmt.Errorf("character %s plays another game: %w", character.ExternalID, database.ErrCharacterNotFound))
		return nil, false
	}
	return character, true
}

func (c *Controller) getCharacter(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	if ctx.Param("character") == database.MasterUserID {
		ctx.JSON(http.StatusOK, response.NewMaster(game))
		return
	}
	character, ok := c.character(ctx, game)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, response.NewCharacter(character))
}

func (c *Controller) moveCharacter(ctx *gin.Context) {
	var req request.Position
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	character, ok := c.character(ctx, game)
	if !ok {
		return
	}

	character, err := c.database.UpdateCharacterPosition(character.ExternalID, req.X, req.Y)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	c.broadcast(game.ExternalID, message.CharacterUpdate, message.Position{
		ExternalID: character.ExternalID,
		X:          character.X,
		Y:          character.Y,
	})
	empty(ctx)
}

func (c *Controller) diceStarted(ctx *gin.Context) {
	var req request.DiceStarted
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	c.broadcast(game.ExternalID, message.DiceStart, message.DiceStarted{DiceID: req.DiceID})
	empty(ctx)
}

func (c *Controller) diceChanged(ctx *gin.Context) {
	var req request.DiceChanged
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	c.broadcast(game.ExternalID, message.DiceChange, message.DiceChanged{NewDiceID: req.NewDiceID})
	empty(ctx)
}

func (c *Controller) diceResulted(ctx *gin.Context) {
	var req request.DiceResulted
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	c.broadcast(game.ExternalID, message.DiceResult, message.DiceResulted{DiceID: req.DiceID, Result: *req.Result})
	empty(ctx)
}

func (c *Controller) addFogErasePoint(ctx *gin.Context) {
	var req request.FogErasePoint
	if !c.bind(ctx, &req) {
		return
	}
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	gmap, err := c.database.FindMapByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	point, err := c.database.AddFogErasePoint(gmap.ID, *req.X, *req.Y, *req.Radius)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	res := newFogErasePoint(point, gmap)
	c.broadcast(game.ExternalID, message.FogErasePointAdd, message.FogErasePoint(res))
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) listFogErasePoints(ctx *gin.Context) {
	game, ok := c.game(ctx)
	if !ok {
		return
	}
	gmap, err := c.database.FindMapByGameID(game.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	points, err := c.database.FindFogErasePointsByMapID(gmap.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	res := make([]response.FogErasePoint, 0, len(points))
	for _, point := range points {
		res = append(res, newFogErasePoint(point, gmap))
	}
	ctx.JSON(http.StatusOK, res)
}

func newFogErasePoint(point *database.FogErasePoint, gmap *database.Map) response.FogErasePoint {
	res := response.FogErasePoint{
		X:             point.X,
		Y:             point.Y,
		MapExternalID: gmap.ExternalID,
		Radius:        point.Radius,
	}
	if !point.CreatedAt.IsZero() {
		created := point.CreatedAt.UTC().Format(time.RFC3339)
		res.CreatedAt = &created
	}
	return res
}
