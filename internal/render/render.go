// Package render maps suggestions and analysis results to HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"

	"review_ai/internal/app"
	"review_ai/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static holds app.js and app.css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"stars": func(r float64) string { return Stars(r).String() },
	"inc":   func(i int) int { return i + 1 },
}

// Page names.
const (
	PageSearch   = "search"
	PageRetrieve = "retrieve"
)

var pageFiles = map[string]string{
	PageSearch:   "templates/index.html",
	PageRetrieve: "templates/retrieve.html",
}

type PageData struct {
	Title      string
	Active     string
	Token      string
	DebounceMS int64
	Skeleton   []int
}

type Renderer struct {
	frags *template.Template
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS,
		"templates/fragments.html", "templates/analysis.html", "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r := &Renderer{frags: base, pages: map[string]*template.Template{}}
	for name, file := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Page(w io.Writer, name string, d PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if d.Skeleton == nil {
		d.Skeleton = []int{1, 2, 3}
	}
	return t.ExecuteTemplate(w, "layout", d)
}

func (r *Renderer) Suggestions(out app.SuggestOutcome) (template.HTML, error) {
	return r.exec("suggestions", out)
}

func (r *Renderer) Skeleton() (template.HTML, error) {
	return r.exec("skeleton", []int{1, 2, 3})
}

func (r *Renderer) Recent(ls []domain.Lookup) (template.HTML, error) {
	return r.exec("recent", ls)
}

// Options tune how a complete analysis is rendered.
type Options struct {
	// ExpandReviews renders the pane as it is after "Load More".
	ExpandReviews bool
	// Download links the Download action to this token when set.
	DownloadToken string
}

// Result renders exactly one panel for res: the analysis, the in-progress
// message, the no-reviews state or the error panel.
func (r *Renderer) Result(res app.Result, o Options) (template.HTML, error) {
	switch res.State {
	case app.StateComplete:
		if res.Analysis == nil {
			break
		}
		return r.Analysis(res.Analysis, o)
	case app.StateInProgress:
		return r.exec("in_progress", nil)
	case app.StateNoReviews:
		return r.exec("no_reviews", nil)
	}
	msg := res.Message
	if msg == "" {
		msg = app.MsgNetwork
	}
	return r.ErrorPanel(msg, res.Entry == domain.EntryPlace)
}

func (r *Renderer) ErrorPanel(msg string, resettable bool) (template.HTML, error) {
	return r.exec("error_panel", struct {
		Message    string
		Resettable bool
	}{msg, resettable})
}

type analysisView struct {
	A            *domain.Analysis
	H            domain.HotelAnalysis
	Sections     []section
	Stars        string
	Reviews      ReviewPane
	DownloadHref string
}

func (r *Renderer) Analysis(a *domain.Analysis, o Options) (template.HTML, error) {
	v := analysisView{A: a, Stars: Stars(a.Rating).String(), Reviews: Paginate(a.Reviews)}
	if a.HotelAnalysis != nil {
		v.H = *a.HotelAnalysis
	}
	v.Sections = sections(v.H)
	if o.ExpandReviews {
		v.Reviews = v.Reviews.Expand()
	}
	if o.DownloadToken != "" {
		v.DownloadHref = "/download/" + url.PathEscape(o.DownloadToken)
	}
	return r.exec("analysis", v)
}

func (r *Renderer) exec(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.frags.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
