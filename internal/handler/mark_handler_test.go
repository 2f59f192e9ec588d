package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/In1quity/Fountain/internal/dto"
	"github.com/In1quity/Fountain/internal/handler"
	"github.com/In1quity/Fountain/internal/service"
)

func markApp(svc *mockMarkService, username string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/editathons", asUser(username))
	h := handler.NewMarkHandler(svc, zerolog.New(io.Discard))
	h.Register(group)
	h.RegisterProtected(group)
	return app
}

func TestMarkHandler_SetMark(t *testing.T) {
	svc := &mockMarkService{}
	app := markApp(svc, "Judy")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/editathons/spring-2026/marks",
		strings.NewReader(`{"title":"Great Article","marks":{"quality":4,"sources":3},"comment":"nice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, "spring-2026", svc.lastCode)
	require.Equal(t, "Judy", svc.lastJuror)
	require.Equal(t, "Great Article", svc.lastMark.Title)
	require.JSONEq(t, `{"quality":4,"sources":3}`, string(svc.lastMark.Marks))
}

func TestMarkHandler_SetMarkAnonymous(t *testing.T) {
	app := markApp(&mockMarkService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/editathons/spring-2026/marks",
		strings.NewReader(`{"title":"Great Article","marks":{"quality":4}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMarkHandler_SetMarkMalformed(t *testing.T) {
	svc := &mockMarkService{err: service.ErrMalformedMarks}
	app := markApp(svc, "Judy")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/editathons/spring-2026/marks",
		strings.NewReader(`{"title":"Great Article","marks":{"quality":99}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMarkHandler_SetMarkNotJuror(t *testing.T) {
	svc := &mockMarkService{err: service.ErrNotJuror}
	app := markApp(svc, "Alice")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/editathons/spring-2026/marks",
		strings.NewReader(`{"title":"Great Article","marks":{"quality":4}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMarkHandler_Aggregate(t *testing.T) {
	svc := &mockMarkService{aggregate: dto.AggregateResponse{
		Title:    "Great Article",
		Criteria: map[string]float64{"quality": 4},
		Overall:  4,
		Jurors:   []dto.JurorScoreView{{Juror: "Judy", Overall: 4}},
	}}
	app := markApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/editathons/spring-2026/articles/Great%20Article/aggregate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.AggregateResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "Great Article", body.Data.Title)
	require.InDelta(t, 4.0, body.Data.Overall, 1e-9)
	require.Len(t, body.Data.Jurors, 1)
}

func TestMarkHandler_AggregateUnknownArticle(t *testing.T) {
	svc := &mockMarkService{err: service.ErrArticleNotFound}
	app := markApp(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/editathons/spring-2026/articles/Nope/aggregate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
