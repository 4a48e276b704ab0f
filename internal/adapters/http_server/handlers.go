// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_ai/internal/app"
	"review_ai/internal/domain"
	"review_ai/internal/render"
)

const (
	maxFormBody = 64 << 10
	recentLimit = 10
)

type Handlers struct {
	Suggest  *app.SuggestService
	Analysis *app.AnalysisService
	Render   *render.Renderer
	// Debounce is handed to the browser script.
	Debounce time.Duration
	Title    string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.page(render.PageSearch))
	s.mux.Get("/retrieve", h.page(render.PageRetrieve))
	s.mux.Get("/download/{token}", h.download)
	s.mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	s.mux.Route("/ui", func(r chi.Router) {
		r.Use(NoStore)
		r.Post("/suggestions", h.suggestions)
		r.Get("/analysis/{id}", h.analysisByPlace)
		r.Get("/retrieve/{token}", h.analysisByToken)
		r.Get("/recent", h.recent)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeHTML(w http.ResponseWriter, frag template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, string(frag)); err != nil {
		log.Error().Err(err).Msg("write fragment failed")
	}
}

func (h *Handlers) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := h.Title
		if title == "" {
			title = "Review Analysis"
		}
		d := render.PageData{
			Title:      title,
			Active:     name,
			Token:      strings.TrimSpace(r.URL.Query().Get("token")),
			DebounceMS: h.Debounce.Milliseconds(),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.Render.Page(w, name, d); err != nil {
			log.Error().Err(err).Str("page", name).Msg("render page failed")
		}
	}
}

// suggestionBody accepts the JSON body the page script sends, or a form post.
func suggestionBody(w http.ResponseWriter, r *http.Request) (string, *domain.Coords, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var in domain.SuggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return "", nil, err
		}
		return in.Value, coords(in.Latitude, in.Longitude), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", nil, err
	}
	var lat, lon *float64
	if v, err := strconv.ParseFloat(r.PostForm.Get("latitude"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(r.PostForm.Get("longitude"), 64); err == nil {
		lon = &v
	}
	return r.PostForm.Get("value"), coords(lat, lon), nil
}

// coords keeps a location only when both parts are present and in range.
func coords(lat, lon *float64) *domain.Coords {
	if lat == nil || lon == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return nil
	}
	return &domain.Coords{Lat: *lat, Lon: *lon}
}

func (h *Handlers) suggestions(w http.ResponseWriter, r *http.Request) {
	q, loc, err := suggestionBody(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {value, latitude, longitude} or a form post")
		return
	}
	frag, err := h.Render.Suggestions(h.Suggest.Suggest(r.Context(), q, loc))
	if err != nil {
		log.Error().Err(err).Msg("render suggestions failed")
		writeProblem(w, http.StatusInternalServerError, "Render failed", "")
		return
	}
	writeHTML(w, frag)
}

func (h *Handlers) analysisByPlace(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.Analysis.ByPlace(r.Context(), param(r, "id")))
}

func (h *Handlers) analysisByToken(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.Analysis.ByToken(r.Context(), param(r, "token")))
}

// writeResult always answers 200 with exactly one panel; backend failures
// become the error panel.
func (h *Handlers) writeResult(w http.ResponseWriter, r *http.Request, res app.Result) {
	o := render.Options{ExpandReviews: r.URL.Query().Get("expand") == "1"}
	if res.State == app.StateComplete {
		o.DownloadToken = res.Key
	}
	w.Header().Set(StateHeader, string(res.State))
	frag, err := h.Render.Result(res, o)
	if err != nil {
		log.Error().Err(err).Str("key", res.Key).Msg("render analysis failed")
		if frag, err = h.Render.ErrorPanel(app.MsgNetwork, res.Entry == domain.EntryPlace); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Render failed", "")
			return
		}
	}
	writeHTML(w, frag)
}

func (h *Handlers) recent(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Analysis.Recent(r.Context(), recentLimit)
	if err != nil {
		log.Warn().Err(err).Msg("recent lookups failed")
		ls = nil
	}
	frag, err := h.Render.Recent(ls)
	if err != nil {
		log.Error().Err(err).Msg("render recent failed")
		writeProblem(w, http.StatusInternalServerError, "Render failed", "")
		return
	}
	writeHTML(w, frag)
}

func (h *Handlers) download(w http.ResponseWriter, r *http.Request) {
	token := param(r, "token")
	if token == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid token", "token is required")
		return
	}
	http.Redirect(w, r, h.Analysis.DownloadURL(token), http.StatusFound)
}

var errMissingDep = errors.New("httpserver: missing handler dependency")

// Validate reports missing dependencies before the server starts.
func (h *Handlers) Validate() error {
	if h.Render == nil || h.Suggest == nil || h.Analysis == nil {
		return errMissingDep
	}
	return nil
}

// param returns a decoded path parameter; chi matches on the raw path when
// the client escaped characters such as ':'.
func param(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	return strings.TrimSpace(v)
}
