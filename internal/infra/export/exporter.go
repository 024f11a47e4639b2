// Package export renders task lists as JSON, YAML, CSV or PDF documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Exporter implements domain.TaskExporter.
var _ domain.TaskExporter = (*Exporter)(nil)

// Formats lists the supported output formats.
var Formats = []string{"json", "yaml", "csv", "pdf"}

// Exporter renders tasks.
type Exporter struct {
	clock domain.Clock
}

// New creates an Exporter. The clock stamps PDF reports and marks overdue rows.
func New(clock domain.Clock) *Exporter {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Exporter{clock: clock}
}

// Export writes tasks to w in the given format.
func (e *Exporter) Export(w io.Writer, format string, tasks []domain.Task) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if tasks == nil {
			tasks = []domain.Task{}
		}
		return enc.Encode(tasks)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		return e.writeCSV(w, tasks)
	case "pdf":
		return e.writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func (e *Exporter) writeCSV(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "title", "status", "due_date", "overdue", "created_at", "description"})
	now := e.clock.Now()
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(domain.DueDateLayout)
		}
		_ = cw.Write([]string{
			t.ID,
			t.Title,
			t.Status.Name(),
			due,
			fmt.Sprint(t.IsOverdue(now)),
			t.CreatedAt.Format(time.RFC3339),
			t.Description,
		})
	}
	cw.Flush()
	return cw.Error()
}

func (e *Exporter) writePDF(w io.Writer, tasks []domain.Task) error {
	now := e.clock.Now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("%d tasks, generated %s", len(tasks), now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	for _, t := range tasks {
		pdf.SetFont("Arial", "B", 11)
		if t.IsOverdue(now) {
			pdf.SetTextColor(200, 30, 30)
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("[%s] %s", t.Status.Display(), t.Title)), "0", "L", false)
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr("Due: "+t.DueLabel()), "0", "L", false)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			pdf.MultiCell(0, 5, tr(desc), "0", "L", false)
		}
		pdf.Ln(3)
	}
	return pdf.Output(w)
}
