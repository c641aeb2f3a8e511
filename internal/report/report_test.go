package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/christopherklint97/vocseed/internal/loader"
	"github.com/christopherklint97/vocseed/internal/redate"
	"github.com/christopherklint97/vocseed/internal/schedule"
)

func testPlan(t *testing.T) *schedule.Plan {
	t.Helper()
	r, err := schedule.ParseDateRange("2025-08-01", "2025-08-14")
	require.NoError(t, err)
	p, err := schedule.NewGenerator(schedule.NewSource(11), nil).Generate(r, 2500)
	require.NoError(t, err)
	return p
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, "CSV": FormatCSV, "json": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWritePlan_CSV(t *testing.T) {
	p := testPlan(t)
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, p, FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 15)
	assert.Equal(t, []string{"date", "count"}, rows[0])
	assert.Equal(t, "2025-08-01", rows[1][0])
	assert.Equal(t, "2025-08-14", rows[14][0])
}

func TestWritePlan_JSONAndYAML(t *testing.T) {
	p := testPlan(t)

	var jbuf bytes.Buffer
	require.NoError(t, WritePlan(&jbuf, p, FormatJSON))
	var fromJSON PlanDoc
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))

	var ybuf bytes.Buffer
	require.NoError(t, WritePlan(&ybuf, p, FormatYAML))
	var fromYAML PlanDoc
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))

	for _, doc := range []PlanDoc{fromJSON, fromYAML} {
		assert.Equal(t, "2025-08-01", doc.Start)
		assert.Equal(t, "2025-08-14", doc.End)
		assert.Equal(t, 2500, doc.Target)
		assert.Len(t, doc.Days, 14)
		sum := 0
		for _, d := range doc.Days {
			sum += d.Count
		}
		assert.Equal(t, 2500, sum)
	}
	assert.Contains(t, jbuf.String(), `"date": "2025-08-01"`)
	assert.Contains(t, ybuf.String(), "- date: \"2025-08-01\"")
}

func TestPlanText(t *testing.T) {
	p := testPlan(t)
	text := PlanText(NewPlanDoc(p))
	assert.Contains(t, text, "2025-08-01")
	assert.Contains(t, text, "2025-08-14")
	assert.Contains(t, text, "2500")
	assert.Contains(t, text, "█")
	assert.NotContains(t, text, "Warning")
}

func TestPlanText_Underflow(t *testing.T) {
	r, err := schedule.ParseDateRange("2025-08-01", "2025-08-10")
	require.NoError(t, err)
	p, err := schedule.NewGenerator(schedule.NewSource(5), nil).Generate(r, 3)
	require.NoError(t, err)
	assert.Contains(t, PlanText(NewPlanDoc(p)), "Warning")
}

func TestPlotPlan(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, PlotPlan(testPlan(t), file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSummaries(t *testing.T) {
	p := testPlan(t)
	text := RedateSummary(&redate.Result{Plan: p, Files: 10, Updated: 8, Failed: 2, Exhausted: true})
	assert.Contains(t, text, "Redate complete")
	assert.Contains(t, text, "Total: 10")
	assert.Contains(t, text, "ran out")

	text = LoadSummary(&loader.Result{Files: 3, FilesOK: 2, FilesFailed: 1, Records: 7, Duplicates: 2},
		&loader.Summary{Total: 42, Recent: []loader.Row{{SourceID: "VOC-1", Gender: "여자", Age: "40", Turns: "6"}}})
	assert.Contains(t, text, "of 3")
	assert.Contains(t, text, "already stored")
	assert.Contains(t, text, "VOC-1")
	assert.True(t, strings.Contains(text, "42"))
}
