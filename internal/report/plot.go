package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/christopherklint97/vocseed/internal/schedule"
)

// PlotPlan saves a bar chart of the plan's daily counts. The image format
// follows the file extension.
func PlotPlan(p *schedule.Plan, file string) error {
	days := p.Quota.Days()
	values := make(plotter.Values, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		values[i] = float64(d.Count)
		// Label every 7th day to keep the axis readable.
		if i%7 == 0 {
			labels[i] = d.Date.Format("01-02")
		}
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Consultations per day (%s, total %d)", p.Range.String(), p.Target)
	pl.X.Label.Text = "Date"
	pl.Y.Label.Text = "Consultations"

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	pl.Add(bars)
	pl.NominalX(labels...)

	width := max(20*vg.Centimeter, vg.Length(len(days))*vg.Points(12))
	if err := pl.Save(width, 10*vg.Centimeter, file); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}
