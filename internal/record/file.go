package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidFile means the file is not a non-empty JSON array.
var ErrInvalidFile = errors.New("invalid record file")

// FileError ties a failure to the file it happened in.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// File is a parsed record file.
type File struct {
	Path    string
	Records []Record
}

// ReadFile loads and validates a record file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidFile, err)}
	}
	if len(raw) == 0 {
		return nil, &FileError{Path: path, Err: fmt.Errorf("%w: empty array", ErrInvalidFile)}
	}

	f := &File{Path: path, Records: make([]Record, len(raw))}
	for i, r := range raw {
		f.Records[i] = New(r)
	}
	return f, nil
}

// Stamp sets the consultation date and time on every object in the file.
// All turns of one consultation share one timestamp.
func (f *File) Stamp(date, clock string) error {
	for i, r := range f.Records {
		if !r.IsObject() {
			continue
		}
		stamped, err := r.Set(FieldDate, date)
		if err != nil {
			return &FileError{Path: f.Path, Err: fmt.Errorf("setting %s: %w", FieldDate, err)}
		}
		stamped, err = stamped.Set(FieldTime, clock)
		if err != nil {
			return &FileError{Path: f.Path, Err: fmt.Errorf("setting %s: %w", FieldTime, err)}
		}
		f.Records[i] = stamped
	}
	return nil
}

// Encode renders the file as tab-indented JSON. Non-ASCII text and HTML
// characters are written as-is.
func (f *File) Encode() ([]byte, error) {
	raw := make([]json.RawMessage, len(f.Records))
	for i, r := range f.Records {
		raw[i] = r.raw
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save writes the file back to its path through a temp file and rename, so
// an interrupted run never leaves a half-written record file.
func (f *File) Save() error {
	data, err := f.Encode()
	if err != nil {
		return &FileError{Path: f.Path, Err: fmt.Errorf("encoding: %w", err)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".vocseed-*")
	if err != nil {
		return &FileError{Path: f.Path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &FileError{Path: f.Path, Err: err}
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return &FileError{Path: f.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FileError{Path: f.Path, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return &FileError{Path: f.Path, Err: err}
	}
	return nil
}
