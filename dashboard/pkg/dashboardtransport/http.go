package dashboardtransport

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/dashboard"
	"github.com/laxuman02230135/task-management/kithttp"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS

	pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))
)

type Loader interface {
	Load(r *http.Request) (dashboard.Outcome, error)
}

func NewHTTPHandler(loader Loader, logger log.Logger) http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r := mux.NewRouter()

	r.Methods("GET").Path("/").Handler(page("index.html", logger))
	r.Methods("GET").Path("/login").Handler(page("login.html", logger))
	r.Methods("GET").Path("/register").Handler(page("register.html", logger))
	r.Methods("GET").Path("/dashboard").Handler(dashboardHandler(loader, logger))
	r.Methods("GET").PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

func page(name string, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, name, nil, logger)
	})
}

func dashboardHandler(loader Loader, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		outcome, err := loader.Load(r)
		if err != nil {
			logger.Log("method", "Dashboard", "err", err)
			renderError(w, err, logger)
			return
		}

		if location, ok := outcome.Redirect(); ok {
			http.Redirect(w, r, location, http.StatusFound)
			return
		}

		render(w, http.StatusOK, "dashboard.html", outcome.Props(), logger)
	})
}

type errorPage struct {
	Status  int
	Message string
}

func renderError(w http.ResponseWriter, err error, logger log.Logger) {
	p := errorPage{Status: kithttp.StatusCode(err), Message: "Something went wrong loading your dashboard. Please retry."}
	if apperr.IsTimeout(err) {
		p.Message = "The server took too long to respond. Please retry."
	}
	render(w, p.Status, "error.html", p, logger)
}

func render(w http.ResponseWriter, status int, name string, data interface{}, logger log.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logger.Log("template", name, "err", err)
	}
}
