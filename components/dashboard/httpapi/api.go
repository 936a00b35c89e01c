package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	"github.com/gorilla/websocket"

	"github.com/Ian-Rin/eco/components/dashboard"
	"github.com/Ian-Rin/eco/components/dashboard/commands"
	"github.com/Ian-Rin/eco/components/dashboard/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Refresh    gocommand.Commander[commands.RefreshDashboardInput]
	QuickRange gocommand.Commander[commands.QuickRangeInput]
	Redraw     gocommand.Commander[commands.RedrawInput]
	Snapshot   gocommand.Querier[queries.SnapshotRequest, dashboard.Snapshot]
	Fragments  gocommand.Querier[queries.FragmentsRequest, queries.Fragments]
	Page       *dashboard.PageController
	Events     *dashboard.BroadcastHook
	EventLog   *dashboard.RenderEventLog
}

// HandleIndex serves the host page. Filter and quick-range parameters are
// applied first; fetch failures still render, carrying the failure message in
// the summary area.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if h.Page == nil {
		http.NotFound(w, r)
		return
	}
	_ = h.Page.ApplyQuery(r.Context(), r.URL.Query())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Page.RenderIndex(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleSnapshot serves the current dashboard state as JSON. A refresh=1
// parameter forces a fetch cycle first.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshot.Query(r.Context(), queries.SnapshotRequest{Refresh: boolParam(r, "refresh")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleFragments serves the rendered chart and table markup as JSON for
// partial page updates.
func (h *Handlers) HandleFragments(w http.ResponseWriter, r *http.Request) {
	fragments, err := h.Fragments.Query(r.Context(), queries.FragmentsRequest{Refresh: boolParam(r, "refresh")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fragments)
}

// HandleRefresh runs a fetch cycle, optionally replacing the filters first.
// The body may be empty.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDashboardInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleQuickRange(w http.ResponseWriter, r *http.Request) {
	var payload commands.QuickRangeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Days <= 0 {
		http.Error(w, "days must be positive", http.StatusBadRequest)
		return
	}
	if err := h.QuickRange.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleRedraw re-renders surfaces from retained state, without fetching.
// The body may be empty, which redraws everything.
func (h *Handlers) HandleRedraw(w http.ResponseWriter, r *http.Request) {
	var payload commands.RedrawInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Redraw.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleEvents streams render notifications, over a WebSocket when the
// client asks for an upgrade and over SSE otherwise. With a recent=N
// parameter it instead returns the retained event history as JSON, newest
// first, so a reconnecting page can catch up before resubscribing.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if recent := r.URL.Query().Get("recent"); recent != "" && h.EventLog != nil {
		n, err := strconv.Atoi(recent)
		if err != nil {
			http.Error(w, "recent must be an integer", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, h.EventLog.Recent(n))
		return
	}
	if h.Events == nil {
		http.NotFound(w, r)
		return
	}
	if websocket.IsWebSocketUpgrade(r) {
		h.Events.ServeWebSocket(w, r)
		return
	}
	h.Events.ServeSSE(w, r)
}

func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
