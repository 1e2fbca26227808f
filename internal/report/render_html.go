package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"
)

//go:embed template.html
var htmlTemplate string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"bytes": func(value int64) string {
		if value < 0 {
			value = 0
		}
		return humanize.Bytes(uint64(value))
	},
	"pct": func(value float64) string {
		return fmt.Sprintf("%.0f%%", value*100)
	},
}).Parse(htmlTemplate))

// RenderHTML writes a standalone HTML report. Thumbnails appear when the
// report was built with a Thumbnailer.
func (r *Report) RenderHTML(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
