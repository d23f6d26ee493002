package apply

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"sade/config"
	"sade/dom"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	Name    string
	Title   string
	Lang    string
	Scheme  string
	Date    string
	ID      string
}

func buildValues(name config.TemplateFieldName, doc dom.Document, src, refID string, scheme config.ColorScheme) Values {
	return Values{
		Context: string(name),
		Name:    strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Title:   doc.Title(),
		Lang:    doc.Lang(),
		Scheme:  scheme.String(),
		Date:    time.Now().Format("2006-01-02"),
		ID:      refID,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
