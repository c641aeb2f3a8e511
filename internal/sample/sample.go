// Package sample writes synthetic record files so the redate and load
// pipelines can be run without the real consultation data set.
package sample

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/oklog/ulid/v2"

	"github.com/christopherklint97/vocseed/internal/record"
)

const DefaultPrefix = "sample"

// Options control what Generate writes.
type Options struct {
	Dir    string
	Prefix string
	// Count is the number of files; Turns is the number of records per file.
	Count int
	Turns int
	// Seed makes the content reproducible. Source ids stay unique per run.
	Seed int64
}

type turnTemplate struct {
	Gender  string `faker:"oneof:남자,여자"`
	Age     string `faker:"oneof:20대,30대,40대,50대,60대"`
	Topic   string `faker:"oneof:카드 분실,결제일 변경,한도 상향,연회비 문의,포인트 사용,해외 결제,카드 해지"`
	Opening string `faker:"sentence"`
	Detail  string `faker:"paragraph"`
	Length  int    `faker:"boundary_start=60, boundary_end=900"`
}

// Generate writes opts.Count files named <prefix>_<n>.json, numbered from 1,
// and returns their paths in order.
func Generate(opts Options) ([]string, error) {
	if opts.Count < 1 || opts.Turns < 1 {
		return nil, errors.New("count and turns must be at least 1")
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", opts.Dir, err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker.SetRandomSource(faker.NewSafeSource(rand.NewSource(seed)))
	entropy := rand.New(rand.NewSource(seed))

	paths := make([]string, 0, opts.Count)
	for n := 1; n <= opts.Count; n++ {
		f, err := newFile(filepath.Join(opts.Dir, fmt.Sprintf("%s_%d.json", opts.Prefix, n)), opts.Turns, entropy)
		if err != nil {
			return paths, err
		}
		if err := f.Save(); err != nil {
			return paths, err
		}
		paths = append(paths, f.Path)
	}
	return paths, nil
}

func newFile(path string, turns int, entropy *rand.Rand) (*record.File, error) {
	var tmpl turnTemplate
	if err := faker.FakeData(&tmpl); err != nil {
		return nil, fmt.Errorf("generating sample content: %w", err)
	}

	f := &record.File{Path: path, Records: make([]record.Record, 0, turns)}
	for i := range turns {
		var line turnTemplate
		if err := faker.FakeData(&line); err != nil {
			return nil, fmt.Errorf("generating sample content: %w", err)
		}
		r := record.New([]byte("{}"))
		fields := []struct {
			name  string
			value any
		}{
			{record.FieldSourceID, ulid.MustNew(ulid.Now(), entropy).String()},
			{record.FieldContent, content(i, tmpl.Topic, line)},
			{record.FieldGender, tmpl.Gender},
			{record.FieldAge, tmpl.Age},
			{record.FieldTurns, turns},
			{record.FieldLength, line.Length},
		}
		for _, fld := range fields {
			var err error
			if r, err = r.Set(fld.name, fld.value); err != nil {
				return nil, fmt.Errorf("setting %s: %w", fld.name, err)
			}
		}
		f.Records = append(f.Records, r)
	}
	return f, nil
}

func content(turn int, topic string, line turnTemplate) string {
	var b strings.Builder
	if turn == 0 {
		fmt.Fprintf(&b, "상담사: 안녕하세요, %s 관련 문의 주셨네요.\n", topic)
	}
	speaker := "고객"
	if turn%2 == 1 {
		speaker = "상담사"
	}
	fmt.Fprintf(&b, "%s: %s %s", speaker, line.Opening, line.Detail)
	return b.String()
}
