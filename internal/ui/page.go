package ui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"subscription-tracker/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"formatCost":  model.FormatCost,
	"displayDate": func(t time.Time) string { return t.Format("01/02/2006") },
}).ParseFS(templates, "templates/page.html"))

// Page serves the single form/list view on top of a Controller.
type Page struct {
	ctrl *Controller
	log  zerolog.Logger
}

func NewPage(ctrl *Controller, log zerolog.Logger) *Page {
	return &Page{ctrl: ctrl, log: log}
}

func (p *Page) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", p.render).Methods(http.MethodGet)
	r.HandleFunc("/submit", p.submit).Methods(http.MethodPost)
	r.HandleFunc("/edit/{id}", p.edit).Methods(http.MethodPost)
	r.HandleFunc("/delete/{id}", p.delete).Methods(http.MethodPost)
	return r
}

func (p *Page) render(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p.ctrl.State()); err != nil {
		p.log.Error().Err(err).Msg("Ошибка при отрисовке страницы")
	}
}

func (p *Page) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	p.ctrl.SetField(FieldName, r.PostFormValue("name"))
	p.ctrl.SetField(FieldCost, r.PostFormValue("cost"))
	p.ctrl.SetField(FieldStartDate, r.PostFormValue("startDate"))
	p.ctrl.SetField(FieldEndDate, r.PostFormValue("endDate"))
	p.ctrl.Submit(r.Context())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Page) edit(w http.ResponseWriter, r *http.Request) {
	p.ctrl.BeginEditByID(mux.Vars(r)["id"])
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Page) delete(w http.ResponseWriter, r *http.Request) {
	p.ctrl.Delete(r.Context(), mux.Vars(r)["id"])
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
