package dashboard

import (
	"bytes"
	"fmt"
	"text/template"
)

// HTMLTableBackendName is the registry name of the built-in table backend.
const HTMLTableBackendName = "htmltable"

// tableMarkup renders the disclosure table. text/template rather than
// html/template: every text fragment goes through EscapeText, which is the
// exact escaping contract for disclosure content, and contextual
// auto-escaping would double-escape it.
const tableMarkup = `<div id="{{.ContainerID}}" class="buyback-table">
<table>
<thead>
<tr>{{range .Columns}}<th class="col-{{.Key}}">{{escape .Title}}</th>{{end}}</tr>
</thead>
<tbody>
{{- if not .Rows}}
<tr class="placeholder-row"><td colspan="{{len .Columns}}">{{escape .Placeholder}}</td></tr>
{{- else}}
{{- range .Rows}}
<tr{{if .Highlight}} class="row-latest"{{end}}>
{{- range .Cells}}
{{- if eq .Kind "badge"}}
<td class="cell-badge"><span class="badge">{{escape .Text}}</span></td>
{{- else if eq .Kind "plan"}}
<td class="cell-plan">{{range .Badges}}<span class="badge badge-plan">{{escape .}}</span>{{end}}{{if .Meta}}<div class="plan-meta">{{range $i, $m := .Meta}}{{if $i}} · {{end}}{{escape $m}}{{end}}</div>{{end}}</td>
{{- else if eq .Kind "date"}}
<td class="cell-date">{{escape .Text}}{{if .Marked}}<span class="tag-latest">{{latestTag}}</span>{{end}}</td>
{{- else if eq .Kind "metric"}}
<td class="cell-metric"><div class="value">{{escape .Text}}</div><div class="fill-bar" style="width: {{percent .FillPercent}}%"></div><div class="secondary">{{escape .Secondary}}</div></td>
{{- else if eq .Kind "progress"}}
<td class="cell-progress"><div class="fill-bar" style="width: {{percent .FillPercent}}%"></div><span class="value">{{escape .Text}}</span>{{if .Note}}<span class="note">{{escape .Note}}</span>{{end}}</td>
{{- else if eq .Kind "price"}}
<td class="cell-price">{{escape .Text}}</td>
{{- else}}
<td class="cell-text">{{escape .Text}}</td>
{{- end}}
{{- end}}
</tr>
{{- end}}
{{- end}}
</tbody>
</table>
</div>
`

var tableTemplate = template.Must(template.New("buyback-table").Funcs(template.FuncMap{
	"escape":    EscapeText,
	"percent":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"latestTag": func() string { return latestDisclosureMarker },
}).Parse(tableMarkup))

type tableTemplateContext struct {
	ContainerID string
	Columns     []TableColumn
	Placeholder string
	Rows        []TableRow
}

// HTMLTableBackend renders the disclosure table as server-side markup. The
// surface retains its rows and rebuilds markup on every redraw, so the
// latest-disclosure highlight is reapplied each time.
type HTMLTableBackend struct{}

// NewHTMLTableBackend builds the built-in table backend.
func NewHTMLTableBackend() *HTMLTableBackend { return &HTMLTableBackend{} }

// Name implements TableBackend.
func (b *HTMLTableBackend) Name() string { return HTMLTableBackendName }

// CreateTable implements TableBackend.
func (b *HTMLTableBackend) CreateTable(containerID string, opt *TableOption) (TableSurface, error) {
	if containerID == "" {
		return nil, fmt.Errorf("dashboard: table container id is required")
	}
	surface := &htmlTableSurface{containerID: containerID}
	if opt != nil {
		surface.opt = *opt
	}
	if len(surface.opt.Columns) == 0 {
		surface.opt.Columns = TableColumns()
	}
	if err := surface.Redraw(); err != nil {
		return nil, err
	}
	return surface, nil
}

type htmlTableSurface struct {
	containerID string
	opt         TableOption
	rows        []TableRow
	html        string
}

func (s *htmlTableSurface) SetData(rows []TableRow) error {
	s.rows = rows
	return s.Redraw()
}

func (s *htmlTableSurface) UpdateOptions(opt *TableOption) error {
	if opt == nil {
		return fmt.Errorf("dashboard: table option is required")
	}
	s.opt = *opt
	if len(s.opt.Columns) == 0 {
		s.opt.Columns = TableColumns()
	}
	return s.Redraw()
}

func (s *htmlTableSurface) Redraw() error {
	var buf bytes.Buffer
	err := tableTemplate.Execute(&buf, tableTemplateContext{
		ContainerID: s.containerID,
		Columns:     s.opt.Columns,
		Placeholder: s.opt.Placeholder,
		Rows:        s.rows,
	})
	if err != nil {
		return fmt.Errorf("dashboard: render table markup: %w", err)
	}
	s.html = buf.String()
	return nil
}

func (s *htmlTableSurface) HTML() string { return s.html }

func init() {
	RegisterEngineHook(func(reg *EngineRegistry) error {
		if _, ok := reg.TableBackend(HTMLTableBackendName); ok {
			return nil
		}
		return reg.RegisterTableBackend(NewHTMLTableBackend())
	})
}
