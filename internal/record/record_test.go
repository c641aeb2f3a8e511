package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRecord_Accessors(t *testing.T) {
	r := New([]byte(`{"source_id":"A1","consulting_turns":"12","consulting_length":340,"client_age":null}`))

	assert.True(t, r.IsObject())
	assert.Equal(t, "A1", r.SourceID())
	assert.Equal(t, "12", r.String(FieldTurns, "0"))
	assert.Equal(t, 12, r.Int(FieldTurns, 0))
	assert.Equal(t, 340, r.Int(FieldLength, 0))
	assert.Equal(t, "340", r.String(FieldLength, ""))
	assert.Equal(t, "30대", r.String(FieldAge, "30대"))
	assert.Equal(t, "2025-09-07", r.String(FieldDate, "2025-09-07"))
	assert.Equal(t, 7, r.Int(FieldGender, 7))
	assert.False(t, r.Has(FieldDate))

	assert.False(t, New([]byte(`"just a string"`)).IsObject())
}

func TestReadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty.json":   `[]`,
		"object.json":  `{"source_id":"x"}`,
		"garbage.json": `not json`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFile(writeFile(t, dir, name, content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFile)

			var fe *FileError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, name, filepath.Base(fe.Path))
		})
	}

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_StampAndSave(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "card_1.json", `[
  {"source_id": "S1", "consulting_date": "2024-01-01", "consulting_content": "상담사: 안녕하세요 <고객님> & 반갑습니다", "extra": {"k": 1}},
  {"source_id": "S1", "consulting_turns": 3},
  "note"
]`)

	f, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Records, 3)

	require.NoError(t, f.Stamp("2025-08-14", "16:30"))
	require.NoError(t, f.Save())

	got, err := ReadFile(path)
	require.NoError(t, err)
	for _, r := range got.Records[:2] {
		assert.Equal(t, "2025-08-14", r.String(FieldDate, ""))
		assert.Equal(t, "16:30", r.String(FieldTime, ""))
		assert.Equal(t, "S1", r.SourceID())
	}
	assert.Equal(t, `"note"`, string(got.Records[2].Raw()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n\t{\n\t\t\"source_id\": \"S1\""), text)
	assert.Contains(t, text, "상담사: 안녕하세요 <고객님> & 반갑습니다")
	assert.Contains(t, text, "\"extra\": {\n\t\t\t\"k\": 1\n\t\t}")
	assert.False(t, strings.HasSuffix(text, "\n"))

	// Existing keys keep their position; new keys are appended.
	first := text[:strings.Index(text, "\n\t},")]
	assert.Less(t, strings.Index(first, FieldDate), strings.Index(first, FieldContent))
	assert.Greater(t, strings.Index(first, FieldTime), strings.Index(first, "extra"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestSortKey(t *testing.T) {
	tests := map[string]int{
		"하나카드_12.json":      12,
		"card_7_extra.json":  7,
		"/data/x_0003.json":  3,
		"card_abc.json":      0,
		"nounderscore.json":  0,
		"card_.json":         0,
		"card_+5.json":       0,
		"card_100.voc.json":  0,
	}
	for path, want := range tests {
		assert.Equal(t, want, SortKey(path), path)
	}
}

func TestDiscover_OrdersByNumericSuffix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"card_10.json", "card_2.json", "card_1.json", "readme.json", "card_b.json", "notes.txt"} {
		writeFile(t, dir, name, `[{}]`)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "card_3.json"), 0755))

	files, err := Discover(dir, "")
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"card_b.json", "readme.json", "card_1.json", "card_2.json", "card_10.json"}, names)

	_, err = Discover(filepath.Join(dir, "missing"), "*.json")
	assert.Error(t, err)
}
