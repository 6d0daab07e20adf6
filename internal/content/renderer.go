package content

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
)

//go:embed templates/*.html
var templateFS embed.FS

// Links are the direct-contact links shown under the form
type Links struct {
	WhatsApp string
	Email    string
	LinkedIn string
}

// Renderer executes the page templates
type Renderer struct {
	dicts map[string]*Dictionary
	pages map[string]*template.Template
	links Links
}

var pageNames = []string{"landing", "login", "dashboard"}

// NewRenderer parses the embedded templates and dictionaries
func NewRenderer(links Links) (*Renderer, error) {
	dicts, err := LoadDictionaries()
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{dicts: dicts, pages: pages, links: links}, nil
}

// Dictionary returns the copy for lang, falling back to English
func (r *Renderer) Dictionary(lang string) *Dictionary {
	if d, ok := r.dicts[lang]; ok {
		return d
	}
	return r.dicts[DefaultLang]
}

// Languages lists the available dictionaries
func (r *Renderer) Languages() []string {
	langs := make([]string, 0, len(r.dicts))
	for lang := range r.dicts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

type pageData struct {
	Lang      string
	Languages []string
	Content   *Dictionary
	Links     Links
}

// Landing renders the marketing page in lang
func (r *Renderer) Landing(w io.Writer, lang string) error {
	d := r.Dictionary(lang)
	return r.pages["landing"].ExecuteTemplate(w, "layout", pageData{
		Lang:      d.Lang,
		Languages: r.Languages(),
		Content:   d,
		Links:     r.links,
	})
}

// Login renders the dashboard password form
func (r *Renderer) Login(w io.Writer) error {
	return r.pages["login"].ExecuteTemplate(w, "layout", pageData{Lang: DefaultLang})
}

// Dashboard renders the dashboard shell; data is fetched from the API
func (r *Renderer) Dashboard(w io.Writer) error {
	return r.pages["dashboard"].ExecuteTemplate(w, "layout", pageData{Lang: DefaultLang})
}
