package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/Ian-Rin/eco/components/dashboard"
	"github.com/Ian-Rin/eco/components/dashboard/commands"
	"github.com/Ian-Rin/eco/components/dashboard/httpapi"
	"github.com/Ian-Rin/eco/components/dashboard/queries"
)

// Config wires the dashboard page, APIs, and hooks onto a go-router router.
type Config[T any] struct {
	Router    router.Router[T]
	Page      *dashboard.PageController
	Snapshot  gocommand.Querier[queries.SnapshotRequest, dashboard.Snapshot]
	Fragments gocommand.Querier[queries.FragmentsRequest, queries.Fragments]
	API       httpapi.Executor
	Broadcast *dashboard.BroadcastHook
	EventLog  *dashboard.RenderEventLog
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML       string
	Snapshot   string
	Fragments  string
	Refresh    string
	QuickRange string
	Redraw     string
	Events     string
	WebSocket  string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Page == nil {
		return errors.New("gorouter: page controller is required")
	}
	routes := cfg.routes()

	group := cfg.Router.Group(cfg.BasePath)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		_ = cfg.Page.ApplyQuery(ctx.Context(), queryValues(ctx))
		var buf bytes.Buffer
		if err := cfg.Page.RenderIndex(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.Snapshot != nil {
		group.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
			snap, err := cfg.Snapshot.Query(ctx.Context(), queries.SnapshotRequest{Refresh: boolQuery(ctx, "refresh")})
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			return ctx.JSON(http.StatusOK, snap)
		}))
	}

	if cfg.Fragments != nil {
		group.Get(routes.Fragments, router.WrapHandler(func(ctx router.Context) error {
			fragments, err := cfg.Fragments.Query(ctx.Context(), queries.FragmentsRequest{Refresh: boolQuery(ctx, "refresh")})
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			return ctx.JSON(http.StatusOK, fragments)
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.EventLog != nil {
		log := cfg.EventLog
		group.Get(routes.Events, router.WrapHandler(func(ctx router.Context) error {
			return ctx.JSON(http.StatusOK, log.Recent(intQuery(ctx, "limit")))
		}))
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshDashboardInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
	}))

	r.Post(routes.QuickRange, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.QuickRangeInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.Days <= 0 {
			return respondError(ctx, http.StatusBadRequest, errors.New("days must be positive"))
		}
		if err := api.QuickRange(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
	}))

	r.Post(routes.Redraw, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RedrawInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Redraw(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "redrawn"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// queryValues lifts the filter parameters into url.Values for the page
// controller. Router contexts expose single lookups only, so empty
// parameters are indistinguishable from absent ones here.
func queryValues(ctx router.Context) url.Values {
	values := url.Values{}
	for _, name := range []string{"date_from", "date_to", "code", "limit", "days"} {
		if v := ctx.Query(name); v != "" {
			values.Set(name, v)
		}
	}
	return values
}

func boolQuery(ctx router.Context, name string) bool {
	switch ctx.Query(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func intQuery(ctx router.Context, name string) int {
	n, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return 0
	}
	return n
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/api/snapshot"
	}
	if routes.Fragments == "" {
		routes.Fragments = "/api/fragments"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/api/refresh"
	}
	if routes.QuickRange == "" {
		routes.QuickRange = "/api/quick-range"
	}
	if routes.Redraw == "" {
		routes.Redraw = "/api/redraw"
	}
	if routes.Events == "" {
		routes.Events = "/api/events"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
