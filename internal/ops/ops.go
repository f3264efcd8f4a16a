// Package ops exposes the operational HTTP surface that runs beside the
// booking listener: a health check for load balancers and a stats
// endpoint with live catalog counters. It never touches booking state
// beyond read-only counts.
package ops

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/server"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

// New builds the ops HTTP server.
func New(st *store.Store, srv *server.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/healthz", health)
	e.GET("/v1/stats", stats(st, srv))
	return e
}

// health verifies the process is serving. Plain "ok", HTTP 200.
func health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

type statsResponse struct {
	store.Counts
	ActiveSessions int64 `json:"active_sessions"`
}

func stats(st *store.Store, srv *server.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, statsResponse{
			Counts:         st.Stats(),
			ActiveSessions: srv.ActiveSessions(),
		})
	}
}
