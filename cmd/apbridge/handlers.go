package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/routes"
	"github.com/bluesky-social/apbridge/activitypub/vocab"

	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
)

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// Renders a post (as object, or as activity envelope) with the ActivityPub media type.
func (srv *Server) renderPost(c echo.Context, id string, envelope bool) error {
	ctx := c.Request().Context()

	ent, err := srv.loader.LoadEntity(ctx, routes.TypePost, id)
	if errors.Is(err, lookup.ErrNotFound) {
		return c.JSON(http.StatusNotFound, GenericError{
			Error:   "NotFound",
			Message: fmt.Sprintf("no post with id %q", id),
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, GenericError{
			Error:   "InternalError",
			Message: err.Error(),
		})
	}

	obj, err := srv.app.Render(ctx, ent, envelope)
	if errors.Is(err, ErrNoMapping) {
		return c.JSON(http.StatusNotFound, GenericError{
			Error:   "NotPublished",
			Message: err.Error(),
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, GenericError{
			Error:   "InternalError",
			Message: err.Error(),
		})
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, vocab.MediaType, b)
}

func (srv *Server) HandlePost(c echo.Context) error {
	return srv.renderPost(c, c.Param("post"), false)
}

// Activities share their ID with the post they publish
func (srv *Server) HandleActivity(c echo.Context) error {
	return srv.renderPost(c, c.Param("activity"), true)
}

func (srv *Server) HandleResolve(c echo.Context) error {
	ctx := c.Request().Context()

	raw := c.QueryParam("url")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "InvalidRequest",
			Message: "url query parameter is required",
		})
	}

	res := srv.resolver.Lookup(ctx, raw)
	out := resolveOutput(raw, res)
	switch res.Status {
	case lookup.StatusFound:
		return c.JSON(http.StatusOK, out)
	case lookup.StatusNotFound:
		return c.JSON(http.StatusNotFound, out)
	default:
		return c.JSON(http.StatusBadRequest, out)
	}
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		errorMessage = fmt.Sprintf("%s", he.Message)
	}
	if code >= 500 {
		srv.logger.Warn("apbridge-http-internal-error", "err", err)
	}
	c.JSON(code, GenericStatus{Status: "error", Daemon: "apbridge", Message: errorMessage})
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, GenericStatus{Status: "ok", Daemon: "apbridge", Version: versioninfo.Short()})
}
