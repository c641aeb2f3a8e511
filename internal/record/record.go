// Package record reads, stamps and writes consultation record files. A file
// is a JSON array; each object in it is one turn of the same consultation.
package record

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	FieldSourceID = "source_id"
	FieldContent  = "consulting_content"
	FieldDate     = "consulting_date"
	FieldTime     = "consulting_time"
	FieldGender   = "client_gender"
	FieldAge      = "client_age"
	FieldTurns    = "consulting_turns"
	FieldLength   = "consulting_length"
)

// Record is one element of a record file, kept as raw JSON so unknown fields
// and key order survive a rewrite.
type Record struct {
	raw json.RawMessage
}

// New wraps raw JSON as a Record.
func New(raw []byte) Record {
	return Record{raw: json.RawMessage(raw)}
}

func (r Record) Raw() json.RawMessage { return r.raw }

// IsObject reports whether the record is a JSON object. Other elements are
// carried through untouched.
func (r Record) IsObject() bool {
	return gjson.ParseBytes(r.raw).IsObject()
}

// Has reports whether field is present.
func (r Record) Has(field string) bool {
	return gjson.GetBytes(r.raw, field).Exists()
}

// String returns field as a string, or def when absent.
func (r Record) String(field, def string) string {
	v := gjson.GetBytes(r.raw, field)
	if !v.Exists() || v.Type == gjson.Null {
		return def
	}
	return v.String()
}

// Int returns field as an integer, or def when absent or not numeric.
// Numeric strings such as "42" are accepted.
func (r Record) Int(field string, def int) int {
	v := gjson.GetBytes(r.raw, field)
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return def
		}
		return n
	}
	return def
}

func (r Record) SourceID() string { return r.String(FieldSourceID, "") }

// Set returns a copy of r with field set to value.
func (r Record) Set(field string, value any) (Record, error) {
	out, err := sjson.SetBytes(r.raw, field, value)
	if err != nil {
		return r, err
	}
	return Record{raw: out}, nil
}
