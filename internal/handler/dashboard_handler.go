package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

const iconURLFormat = "http://openweathermap.org/img/wn/%s@2x.png"

var page = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"iconURL": func(icon string) string { return fmt.Sprintf(iconURLFormat, icon) },
	"forecastDate": func(ts int64) string {
		return time.Unix(ts, 0).UTC().Format("Mon, Jan 2")
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

// Dashboard is the part of *dashboard.Dashboard the handlers drive.
type Dashboard interface {
	State() model.DashboardState
	Search(ctx context.Context, input string) error
	FetchByCoordinates(ctx context.Context, lat, lon float64) error
	ToggleFavorite(ctx context.Context, city string) ([]string, error)
	IsFavorite(city string) bool
}

type DashboardHandler struct {
	Dashboard Dashboard
}

func NewDashboardHandler(d Dashboard) *DashboardHandler {
	return &DashboardHandler{Dashboard: d}
}

// Routes registers every dashboard endpoint on a new mux.
func (h *DashboardHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/search", h.HandleSearchForm)
	mux.HandleFunc("/favorites/toggle", h.HandleToggleForm)
	mux.HandleFunc("/api/dashboard", h.HandleState)
	mux.HandleFunc("/api/search", h.HandleSearch)
	mux.HandleFunc("/api/favorites", h.HandleToggleFavorite)
	return mux
}

func (h *DashboardHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("Could not encode json", "error", err)
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string, data interface{}) {
	h.writeJSONResponse(w, statusCode, model.Failure(errMsg, data))
}

// allowMethod rejects the request unless it uses method.
func (h *DashboardHandler) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	return false
}

type pageData struct {
	model.DashboardState
	IsFavorite bool
}

func (h *DashboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	state := h.Dashboard.State()
	data := pageData{DashboardState: state}
	if state.Weather != nil {
		data.IsFavorite = h.Dashboard.IsFavorite(state.Weather.LocationName)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		config.GetLogger().Errorw("Could not render dashboard", "error", err)
	}
}

// HandleSearchForm runs a search from the HTML form and redirects back to the dashboard.
func (h *DashboardHandler) HandleSearchForm(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	// The outcome is part of the dashboard state rendered after the redirect.
	_ = h.Dashboard.Search(r.Context(), r.FormValue("city"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) HandleToggleForm(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	_, _ = h.Dashboard.ToggleFavorite(r.Context(), r.FormValue("city"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Success(h.Dashboard.State()))
}

// HandleSearch fetches by ?city= or by ?lat=&lon= and returns the resulting state.
func (h *DashboardHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}

	query := r.URL.Query()
	city := strings.TrimSpace(query.Get("city"))
	latStr, lonStr := query.Get("lat"), query.Get("lon")

	var err error
	switch {
	case city != "":
		err = h.Dashboard.Search(r.Context(), city)
	case latStr != "" || lonStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			h.writeError(w, http.StatusBadRequest, "Invalid 'lat' or 'lon' query parameter", nil)
			return
		}
		err = h.Dashboard.FetchByCoordinates(r.Context(), lat, lon)
	default:
		h.writeError(w, http.StatusBadRequest, "Missing 'city' or 'lat'/'lon' query parameter", nil)
		return
	}

	state := h.Dashboard.State()
	switch {
	case err == nil:
		h.writeJSONResponse(w, http.StatusOK, model.Success(state))
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, state.Error, state)
	case errors.Is(err, dashboard.ErrSuperseded):
		h.writeError(w, http.StatusConflict, "Superseded by a newer search", state)
	case errors.Is(err, dashboard.ErrClosed):
		h.writeError(w, http.StatusServiceUnavailable, "Dashboard is shutting down", nil)
	default:
		h.writeError(w, http.StatusBadGateway, dashboard.MsgFetchFailed, state)
	}
}

func (h *DashboardHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}

	list, err := h.Dashboard.ToggleFavorite(r.Context(), r.URL.Query().Get("city"))
	switch {
	case errors.Is(err, dashboard.ErrEmptyCity):
		h.writeError(w, http.StatusBadRequest, "Missing 'city' query parameter", nil)
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "Failed to save favorites", list)
	default:
		h.writeJSONResponse(w, http.StatusOK, model.Success(list))
	}
}
