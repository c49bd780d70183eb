package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/medtrack/internal/model"
)

func sampleData() *model.ReportData {
	return &model.ReportData{
		Report: &model.Report{ID: "9007199254740993", Title: "January <review>", StartDate: "2023-01-01", EndDate: "2023-01-31"},
		Medications: []*model.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", StartDate: "2023-01-01"},
		},
		SideEffects: []*model.SideEffect{
			{Date: "2023-01-15", Symptom: "dry | cough", Severity: 3, TimeOfDay: "morning", MedicationName: "Lisinopril"},
		},
	}
}

func TestReportMarkdown(t *testing.T) {
	md := string(ReportMarkdown(sampleData()))

	assert.Contains(t, md, "Period: **2023-01-01** to **2023-01-31**")
	assert.Contains(t, md, "| Lisinopril | 10mg | daily | 2023-01-01 | ongoing |")
	assert.Contains(t, md, `dry \| cough`)
	assert.Contains(t, md, "No check-ins were recorded.")
	assert.NotContains(t, md, "<review>")
}

func TestRenderReport(t *testing.T) {
	page, err := NewRenderer().RenderReport(sampleData())
	require.NoError(t, err)

	out := string(page)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>January &lt;review&gt;</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Lisinopril</td>")
	assert.NotContains(t, out, "<review>")
}
