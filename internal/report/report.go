// Package report renders quota plans and run summaries.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/christopherklint97/vocseed/internal/schedule"
	"github.com/christopherklint97/vocseed/internal/tui"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, csv, json or yaml)", s)
}

// PlanDoc is the serialized form of a plan.
type PlanDoc struct {
	Start     string              `json:"start" yaml:"start"`
	End       string              `json:"end" yaml:"end"`
	Target    int                 `json:"target" yaml:"target"`
	Adjusted  string              `json:"adjusted" yaml:"adjusted"`
	Delta     int                 `json:"delta" yaml:"delta"`
	Underflow bool                `json:"underflow" yaml:"underflow"`
	Days      []schedule.DayCount `json:"days" yaml:"days"`
}

func NewPlanDoc(p *schedule.Plan) PlanDoc {
	return PlanDoc{
		Start:     p.Range.Start().Format(schedule.DateLayout),
		End:       p.Range.End().Format(schedule.DateLayout),
		Target:    p.Target,
		Adjusted:  p.Adjusted.Format(schedule.DateLayout),
		Delta:     p.Delta,
		Underflow: p.Underflow(),
		Days:      p.Quota.Days(),
	}
}

// WritePlan writes p to w in the given format.
func WritePlan(w io.Writer, p *schedule.Plan, f Format) error {
	doc := NewPlanDoc(p)
	switch f {
	case FormatText:
		_, err := io.WriteString(w, PlanText(doc))
		return err
	case FormatCSV:
		return writeCSV(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", f)
}

func writeCSV(w io.Writer, doc PlanDoc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "count"}); err != nil {
		return err
	}
	for _, d := range doc.Days {
		if err := cw.Write([]string{d.Day, strconv.Itoa(d.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PlanText renders the plan as a styled table with a bar per day.
func PlanText(doc PlanDoc) string {
	peak := 1
	for _, d := range doc.Days {
		peak = max(peak, d.Count)
	}

	rows := make([][]string, 0, len(doc.Days))
	for _, d := range doc.Days {
		width := 0
		if d.Count > 0 {
			width = max(1, d.Count*30/peak)
		}
		rows = append(rows, []string{d.Day, strconv.Itoa(d.Count), strings.Repeat("█", width)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.DimStyle).
		Headers("DATE", "COUNT", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tui.HeaderStyle
			case row >= 0 && row < len(doc.Days) && doc.Days[row].Day == doc.Adjusted && col == 1:
				return tui.CellStyle.Foreground(lipgloss.Color("14")).Align(lipgloss.Right)
			case col == 1:
				return tui.CellStyle.Align(lipgloss.Right)
			case col == 2:
				return tui.CellStyle.Foreground(lipgloss.Color("12"))
			}
			return tui.CellStyle
		})

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(fmt.Sprintf("Plan %s .. %s", doc.Start, doc.End)))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s across %d days\n",
		tui.HighlightStyle.Render(strconv.Itoa(doc.Target)), len(doc.Days)))
	if doc.Delta != 0 {
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Reconciled %+d on %s", doc.Delta, doc.Adjusted)))
		b.WriteString("\n")
	}
	if doc.Underflow {
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("Warning: %s is negative; target is smaller than the curve's minimum", doc.Adjusted)))
		b.WriteString("\n")
	}
	return b.String()
}

// TopDays renders the busiest days as a short list.
func TopDays(days []schedule.DayCount) string {
	var b strings.Builder
	b.WriteString(tui.SubtitleStyle.Render(fmt.Sprintf("Top %d days:", len(days))))
	b.WriteString("\n")
	for _, d := range days {
		b.WriteString(fmt.Sprintf("  %s  %s\n", d.Day, tui.HighlightStyle.Render(strconv.Itoa(d.Count))))
	}
	return b.String()
}
