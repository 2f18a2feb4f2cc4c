package file

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

// Ensure Exporter implements the interface.
var _ driven.ReportExporter = (*Exporter)(nil)

// Exporter renders final reports into an output directory.
type Exporter struct {
	outputDir string
	html      *template.Template
}

// NewExporter creates an exporter writing to outputDir ("." when empty).
func NewExporter(outputDir string) (*Exporter, error) {
	if outputDir == "" {
		outputDir = "."
	}
	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Exporter{outputDir: outputDir, html: tmpl}, nil
}

// ReportPath returns the report file for identifier in format.
func (e *Exporter) ReportPath(platform, identifier string, format domain.ExportFormat) string {
	return filepath.Join(e.outputDir, baseName(platform, identifier)+"_report."+string(format))
}

// Export writes report in format. FormatAll writes every concrete format and
// returns the paths written before the first failure.
func (e *Exporter) Export(ctx context.Context, report domain.Report, format domain.ExportFormat, identifier, platform string) ([]string, error) {
	if _, err := domain.ParseExportFormat(string(format)); err != nil {
		return nil, err
	}

	var written []string
	for _, f := range format.Expand() {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		var data []byte
		var err error
		switch f {
		case domain.FormatJSON:
			data, err = e.renderJSON(report)
		case domain.FormatHTML:
			data, err = e.renderHTML(report)
		}
		if err != nil {
			return written, fmt.Errorf("render %s: %w", f, err)
		}

		path := e.ReportPath(platform, identifier, f)
		if err := writeAtomic(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (e *Exporter) renderJSON(report domain.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (e *Exporter) renderHTML(report domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.html.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var templateFuncs = template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"ago":   humanize.Time,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"join": func(s domain.StringSet) string { return strings.Join(s.Sorted(), ", ") },
}
