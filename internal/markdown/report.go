package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/templui/medtrack/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Renderer{
		md: md,
	}
}

// Convert renders Markdown source to an HTML fragment.
func (r *Renderer) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := r.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderReport builds a standalone HTML page for a report and its records.
func (r *Renderer) RenderReport(data *model.ReportData) ([]byte, error) {
	body, err := r.Convert(ReportMarkdown(data))
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\" />\n<title>")
	page.WriteString(html.EscapeString(data.Report.Title))
	page.WriteString("</title>\n</head>\n<body>\n")
	page.Write(body)
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// ReportMarkdown lays the report out as Markdown with one table per record type.
func ReportMarkdown(data *model.ReportData) []byte {
	var b strings.Builder
	rep := data.Report

	fmt.Fprintf(&b, "# %s\n\n", escape(rep.Title))
	fmt.Fprintf(&b, "Period: **%s** to **%s**\n\n", rep.StartDate, rep.EndDate)

	b.WriteString("## Medications\n\n")
	if len(data.Medications) == 0 {
		b.WriteString("No medications were active in this period.\n\n")
	} else {
		b.WriteString("| Name | Dosage | Frequency | Started | Ended |\n|---|---|---|---|---|\n")
		for _, m := range data.Medications {
			end := "ongoing"
			if m.EndDate != nil {
				end = *m.EndDate
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				escape(m.Name), escape(m.Dosage), escape(m.Frequency), m.StartDate, end)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Side effects\n\n")
	if len(data.SideEffects) == 0 {
		b.WriteString("No side effects were recorded.\n\n")
	} else {
		b.WriteString("| Date | Symptom | Severity | Time of day | Medication |\n|---|---|---|---|---|\n")
		for _, e := range data.SideEffects {
			fmt.Fprintf(&b, "| %s | %s | %d/10 | %s | %s |\n",
				e.Date, escape(e.Symptom), e.Severity, e.TimeOfDay, escape(e.MedicationName))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Daily check-ins\n\n")
	if len(data.Checkins) == 0 {
		b.WriteString("No check-ins were recorded.\n")
	} else {
		b.WriteString("| Date | Overall | Sleep | Energy | Mood |\n|---|---|---|---|---|\n")
		for _, c := range data.Checkins {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %s |\n",
				c.Date, c.OverallRating, c.SleepQuality, c.EnergyLevel, c.Mood)
		}
	}

	return []byte(b.String())
}

var mdEscaper = strings.NewReplacer(
	"|", `\|`,
	"\n", " ",
	"\r", "",
	"<", "&lt;",
	">", "&gt;",
)

// escape keeps user text from breaking table cells or injecting HTML.
func escape(s string) string {
	return mdEscaper.Replace(s)
}
