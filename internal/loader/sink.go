package loader

import (
	"context"
	"errors"
	"strconv"

	"github.com/christopherklint97/vocseed/internal/ingest"
	"github.com/christopherklint97/vocseed/internal/record"
	"github.com/christopherklint97/vocseed/internal/store"
)

// Sink receives records one at a time.
type Sink interface {
	Name() string
	// Check verifies the sink is reachable before any file is read.
	Check(ctx context.Context) error
	Save(ctx context.Context, r record.Record) error
	Summary(ctx context.Context, limit int) (*Summary, error)
}

// Summary describes what the sink holds after a run.
type Summary struct {
	Total  int
	Recent []Row
}

// Row is a short description of one stored consultation.
type Row struct {
	SourceID string
	Gender   string
	Age      string
	Turns    string
}

// ErrDuplicate means the sink already held the record.
var ErrDuplicate = errors.New("record already stored")

// APISink posts records to the ingestion API.
type APISink struct {
	client *ingest.Client
}

func NewAPISink(client *ingest.Client) *APISink {
	return &APISink{client: client}
}

func (s *APISink) Name() string { return "api" }

func (s *APISink) Check(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *APISink) Save(ctx context.Context, r record.Record) error {
	return s.client.Save(ctx, ingest.BuildPayload(s.client.Endpoint(), r))
}

func (s *APISink) Summary(ctx context.Context, limit int) (*Summary, error) {
	total, recent, err := s.client.Consultations(ctx, limit)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Total: total}
	for _, c := range recent {
		sum.Recent = append(sum.Recent, Row{
			SourceID: c.SourceID,
			Gender:   c.ClientGender,
			Age:      c.ClientAge,
			Turns:    c.ConsultingTurns,
		})
	}
	return sum, nil
}

// DBSink inserts records into the voc_raw table.
type DBSink struct {
	db *store.DB
}

func NewDBSink(db *store.DB) *DBSink {
	return &DBSink{db: db}
}

func (s *DBSink) Name() string { return "db" }

func (s *DBSink) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DBSink) Save(ctx context.Context, r record.Record) error {
	v, err := store.FromRecord(r)
	if err != nil {
		return err
	}
	inserted, err := s.db.InsertVocRaw(ctx, v)
	if err != nil {
		return err
	}
	if !inserted {
		return ErrDuplicate
	}
	return nil
}

func (s *DBSink) Summary(ctx context.Context, limit int) (*Summary, error) {
	total, err := s.db.CountVocRaw(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.RecentVocRaw(ctx, limit)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Total: total}
	for _, v := range rows {
		sum.Recent = append(sum.Recent, Row{
			SourceID: v.SourceID,
			Gender:   v.ClientGender,
			Age:      strconv.Itoa(v.ClientAge),
			Turns:    strconv.Itoa(v.ConsultingTurns),
		})
	}
	return sum, nil
}
