package endpoints

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/http/api"
	"github.com/Nixie-Tech-LLC/marquee/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/marquee/internal/player"
	"github.com/Nixie-Tech-LLC/marquee/internal/presentation"
)

// Player is the session side the endpoints drive.
type Player interface {
	Snapshot(ctx context.Context, screenID int, surface presentation.Surface) (presentation.Tree, error)
	Reload(ctx context.Context, screenID int) error
	PlaybackEnded(screenID, contentID int, url string) bool
	Phases(screenID int) (map[int]presentation.PhaseState, bool)
}

// ETags remembers the last served presentation tag per screen.
type ETags interface {
	Get(ctx context.Context, screenID int) string
	Set(ctx context.Context, screenID int, tag string)
	Invalidate(ctx context.Context, screenID int)
}

type TvController struct {
	player Player
	etags  ETags
}

func newTvController(p Player, etags ETags) *TvController {
	return &TvController{player: p, etags: etags}
}

// PlayerModule mounts the public /screens playback endpoints.
func PlayerModule(p Player, etags ETags) api.Module {
	ctl := newTvController(p, etags)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/ping", ctl.ping)

		c.GET("/screens/:id/presentation", ctl.getPresentation)
		c.GET("/screens/:id/player", ctl.getPlayerPage)
		c.GET("/screens/:id/preview", ctl.getPreview)
		c.GET("/screens/:id/state", ctl.getState)

		c.POST("/screens/:id/reload", ctl.reloadScreen)
		c.POST("/screens/:id/content/:content_id/ended", ctl.playbackEnded)
	})
}

func paramID(ctx *gin.Context, name string) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		log.Debug().Str(name+"_raw", ctx.Param(name)).Msg("[tv] invalid id in request")
		return 0, api.BadRequest("invalid " + name)
	}
	return id, nil
}

func playerError(err error) *api.APIError {
	if errors.Is(err, player.ErrScreenNotFound) {
		return api.NotFound("screen not found")
	}
	log.Error().Err(err).Msg("[tv] player failure")
	return api.Internal("could not load screen")
}

func (t *TvController) snapshot(ctx *gin.Context, surface presentation.Surface) (int, presentation.Tree, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return 0, presentation.Tree{}, apiErr
	}
	tree, err := t.player.Snapshot(ctx.Request.Context(), id, surface)
	if err != nil {
		return id, presentation.Tree{}, playerError(err)
	}
	return id, tree, nil
}

// GET /api/tv/ping
func (t *TvController) ping(ctx *gin.Context) (any, *api.APIError) {
	return packets.PingResponse{Status: "ok"}, nil
}

// GET /api/tv/screens/:id/presentation
func (t *TvController) getPresentation(ctx *gin.Context) (any, *api.APIError) {
	surface := presentation.ParseSurface(ctx.Query("surface"))
	id, tree, apiErr := t.snapshot(ctx, surface)
	if apiErr != nil {
		return nil, apiErr
	}

	body, err := json.Marshal(tree)
	if err != nil {
		return nil, api.Internal("could not encode presentation")
	}
	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	t.etags.Set(ctx.Request.Context(), id, etag)

	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")
	if match := ctx.GetHeader("If-None-Match"); match == etag {
		ctx.AbortWithStatus(http.StatusNotModified)
		return nil, nil
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
	return nil, nil
}

// GET /api/tv/screens/:id/player
func (t *TvController) getPlayerPage(ctx *gin.Context) (any, *api.APIError) {
	_, tree, apiErr := t.snapshot(ctx, presentation.SurfaceFullscreen)
	if apiErr != nil {
		return nil, apiErr
	}
	var buf bytes.Buffer
	err := presentation.WritePage(&buf, presentation.Page{
		Tree:     tree,
		StateURL: "presentation",
		EndedURL: "content/:content_id/ended",
	})
	if err != nil {
		log.Error().Err(err).Int("screen_id", tree.ScreenID).Msg("[tv] failed to render player page")
		return nil, api.Internal("could not render player")
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil, nil
}

// GET /api/tv/screens/:id/preview
func (t *TvController) getPreview(ctx *gin.Context) (any, *api.APIError) {
	_, tree, apiErr := t.snapshot(ctx, presentation.SurfacePreview)
	if apiErr != nil {
		return nil, apiErr
	}
	html, err := presentation.RenderFragment(tree)
	if err != nil {
		log.Error().Err(err).Int("screen_id", tree.ScreenID).Msg("[tv] failed to render preview")
		return nil, api.Internal("could not render preview")
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	return nil, nil
}

// GET /api/tv/screens/:id/state
func (t *TvController) getState(ctx *gin.Context) (any, *api.APIError) {
	id, _, apiErr := t.snapshot(ctx, presentation.SurfaceFullscreen)
	if apiErr != nil {
		return nil, apiErr
	}
	phases, ok := t.player.Phases(id)
	if !ok {
		return nil, api.NotFound("screen not found")
	}
	return packets.StateResponse{
		ScreenID: id,
		ETag:     t.etags.Get(ctx.Request.Context(), id),
		Phases:   phases,
	}, nil
}

// POST /api/tv/screens/:id/reload
func (t *TvController) reloadScreen(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := t.player.Reload(ctx.Request.Context(), id); err != nil {
		return nil, playerError(err)
	}
	t.etags.Invalidate(ctx.Request.Context(), id)
	return packets.ReloadResponse{ScreenID: id, Reloaded: true}, nil
}

// POST /api/tv/screens/:id/content/:content_id/ended
func (t *TvController) playbackEnded(ctx *gin.Context) (any, *api.APIError) {
	id, apiErr := paramID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	contentID, apiErr := paramID(ctx, "content_id")
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.PlaybackEndedRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}
	accepted := t.player.PlaybackEnded(id, contentID, request.URL)
	if accepted {
		t.etags.Invalidate(ctx.Request.Context(), id)
	}
	return packets.PlaybackEndedResponse{Accepted: accepted}, nil
}
