package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/christopherklint97/vocseed/internal/loader"
	"github.com/christopherklint97/vocseed/internal/redate"
	"github.com/christopherklint97/vocseed/internal/store"
	"github.com/christopherklint97/vocseed/internal/tui"
)

// RedateSummary describes a finished redate run.
func RedateSummary(res *redate.Result) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Redate complete"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Updated: %s  Failed: %s  Total: %d\n",
		tui.SuccessStyle.Render(strconv.Itoa(res.Updated)),
		failedText(res.Failed), res.Files)
	if res.Plan != nil && res.Plan.Delta != 0 {
		fmt.Fprintf(&b, "%s\n", tui.DimStyle.Render(fmt.Sprintf("Reconciled %+d on %s",
			res.Plan.Delta, res.Plan.Adjusted.Format("2006-01-02"))))
	}
	if res.Exhausted {
		b.WriteString(tui.WarningStyle.Render("Schedule ran out before the last file."))
		b.WriteString("\n")
	}
	if len(res.Pending) > 0 {
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("%d slots left unassigned:", res.Remaining)))
		b.WriteString("\n")
		for _, d := range res.Pending {
			fmt.Fprintf(&b, "  %s  %d\n", d.Day, d.Count)
		}
	}
	return b.String()
}

// LoadSummary describes a finished load run and what the sink now holds.
func LoadSummary(res *loader.Result, sum *loader.Summary) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Load complete"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Files: %s ok, %s failed of %d\n",
		tui.SuccessStyle.Render(strconv.Itoa(res.FilesOK)), failedText(res.FilesFailed), res.Files)
	fmt.Fprintf(&b, "Records: %s saved, %s failed", tui.SuccessStyle.Render(strconv.Itoa(res.Records)), failedText(res.RecordsFailed))
	if res.Duplicates > 0 {
		fmt.Fprintf(&b, ", %s already stored", tui.DimStyle.Render(strconv.Itoa(res.Duplicates)))
	}
	b.WriteString("\n")
	if sum != nil {
		b.WriteString("\n")
		b.WriteString(SinkSummary(sum))
	}
	return b.String()
}

// SinkSummary shows the row count and most recent rows held by a sink.
func SinkSummary(sum *loader.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stored consultations: %s\n", tui.HighlightStyle.Render(strconv.Itoa(sum.Total)))
	if len(sum.Recent) == 0 {
		return b.String()
	}
	rows := make([][]string, len(sum.Recent))
	for i, r := range sum.Recent {
		rows[i] = []string{r.SourceID, r.Gender, r.Age, r.Turns}
	}
	b.WriteString(recentTable([]string{"SOURCE ID", "GENDER", "AGE", "TURNS"}, rows))
	b.WriteString("\n")
	return b.String()
}

// StatusSummary shows what the database holds, including rows per day.
func StatusSummary(total int, recent []store.VocRaw, daily []store.DailyCount) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("voc_raw"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Rows: %s\n", tui.HighlightStyle.Render(strconv.Itoa(total)))
	if total == 0 {
		b.WriteString(tui.DimStyle.Render("No consultations stored yet."))
		b.WriteString("\n")
		return b.String()
	}

	if len(recent) > 0 {
		rows := make([][]string, len(recent))
		for i, v := range recent {
			rows[i] = []string{
				v.SourceID,
				v.ConsultingDate.Format("2006-01-02"),
				v.ConsultingTime,
				v.ClientGender,
				strconv.Itoa(v.ClientAge),
				strconv.Itoa(v.ConsultingTurns),
			}
		}
		b.WriteString("\n")
		b.WriteString(tui.SubtitleStyle.Render("Most recent"))
		b.WriteString("\n")
		b.WriteString(recentTable([]string{"SOURCE ID", "DATE", "TIME", "GENDER", "AGE", "TURNS"}, rows))
		b.WriteString("\n")
	}

	if len(daily) > 0 {
		b.WriteString("\n")
		b.WriteString(tui.SubtitleStyle.Render("Per day"))
		b.WriteString("\n")
		for _, d := range daily {
			fmt.Fprintf(&b, "  %s  %d\n", d.Date, d.Count)
		}
	}
	return b.String()
}

func recentTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tui.DimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle
			}
			return tui.CellStyle
		}).
		String()
}

func failedText(n int) string {
	if n == 0 {
		return tui.DimStyle.Render("0")
	}
	return tui.ErrorStyle.Render(strconv.Itoa(n))
}
