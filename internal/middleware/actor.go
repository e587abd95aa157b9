package middleware

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	// ActorHeader carries the acting user's name on every mutating request.
	ActorHeader = "X-Actor"
	// ActorKey is the context key for the actor name
	ActorKey contextKey = "actor"
	// MaxActorLength bounds the header value, in runes
	MaxActorLength = 64
)

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const errorTypeMissingActor = "https://moneykeeper.app/errors/missing-actor"

// ActorMiddleware extracts the X-Actor header into the request context.
// Mutating requests without the header are rejected; reads pass through
// with an empty actor.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
			if utf8.RuneCountInString(actor) > MaxActorLength {
				// Truncate on a rune boundary so the stored actor stays
				// valid UTF-8.
				actor = string([]rune(actor)[:MaxActorLength])
			}

			if actor == "" && mutating(c.Request().Method) {
				return c.JSON(http.StatusBadRequest, problemDetails{
					Type:     errorTypeMissingActor,
					Title:    "Missing Actor",
					Status:   http.StatusBadRequest,
					Detail:   "The " + ActorHeader + " header is required for write requests.",
					Instance: c.Request().URL.Path,
				})
			}

			ctx := context.WithValue(c.Request().Context(), ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// GetActor extracts the actor name from the context
func GetActor(c echo.Context) string {
	if actor, ok := c.Request().Context().Value(ActorKey).(string); ok {
		return actor
	}
	return ""
}
