package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

func runActor(t *testing.T, method, actor string) (*httptest.ResponseRecorder, bool, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/v1/accounts", nil)
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	seenActor := ""
	handler := func(c echo.Context) error {
		handlerCalled = true
		seenActor = GetActor(c)
		return c.String(http.StatusOK, "OK")
	}

	if err := ActorMiddleware()(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return rec, handlerCalled, seenActor
}

func TestActor_Write(t *testing.T) {
	rec, called, actor := runActor(t, http.MethodPost, "alice")
	if !called {
		t.Error("Handler was not called")
	}
	if actor != "alice" {
		t.Errorf("Expected actor alice, got %q", actor)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestActor_MissingOnWrite(t *testing.T) {
	rec, called, _ := runActor(t, http.MethodPost, "")
	if called {
		t.Error("Handler should not be called without an actor")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestActor_MissingOnRead(t *testing.T) {
	rec, called, actor := runActor(t, http.MethodGet, "")
	if !called {
		t.Error("Handler was not called")
	}
	if actor != "" {
		t.Errorf("Expected empty actor, got %q", actor)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestActor_Truncated(t *testing.T) {
	long := strings.Repeat("a", MaxActorLength+10)
	_, _, actor := runActor(t, http.MethodPost, long)
	if len(actor) != MaxActorLength {
		t.Errorf("Expected actor truncated to %d, got %d", MaxActorLength, len(actor))
	}
}

func TestActor_TruncatedOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", MaxActorLength+10)
	_, _, actor := runActor(t, http.MethodPost, long)
	if !utf8.ValidString(actor) {
		t.Errorf("Truncated actor is not valid UTF-8: %q", actor)
	}
	if got := utf8.RuneCountInString(actor); got != MaxActorLength {
		t.Errorf("Expected actor truncated to %d runes, got %d", MaxActorLength, got)
	}
}
