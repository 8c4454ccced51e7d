// Package tracker owns the log of solved problems.
//
// A Store keeps the whole collection in memory, ordered newest first, and
// writes the entire collection through its Backend on every mutation.
// The in-memory state only changes once the write succeeded.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
	"github.com/MrSnakeDoc/solvelog/internal/idgen"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
)

// DefaultKey is the logical key the collection is stored under.
const DefaultKey = "problems"

// Mutation names reported to the Observer.
const (
	OpReload = "reload"
	OpUpsert = "upsert"
	OpDelete = "delete"
	OpNote   = "note"
	OpClear  = "clear"
	OpImport = "import"
)

// UpsertResult tells whether Upsert inserted or updated a record.
type UpsertResult int

const (
	Inserted UpsertResult = iota + 1
	Updated
)

func (r UpsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Store is the explicit handle on the problem log.
type Store struct {
	backend  Backend
	key      string
	newID    idgen.Generator
	now      func() time.Time
	logger   logger.Logger
	observer Observer

	// writeMu serializes mutations; mu guards problems.
	writeMu    sync.Mutex
	mu         sync.RWMutex
	problems   []domain.Problem
	lastReload time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithKey sets the storage key.
func WithKey(key string) Option { return func(s *Store) { s.key = key } }

// WithIDGenerator sets the id generator used for new records.
func WithIDGenerator(gen idgen.Generator) Option { return func(s *Store) { s.newID = gen } }

// WithClock sets the time source (tests).
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Store) { s.logger = l } }

// WithObserver sets the observer notified of every mutation.
func WithObserver(o Observer) Option { return func(s *Store) { s.observer = o } }

// New creates an empty store. Call Reload to load the persisted collection.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      DefaultKey,
		newID:    idgen.Default,
		now:      time.Now,
		logger:   logger.NewNop(),
		observer: noopObserver{},
		problems: []domain.Problem{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────

// Snapshot returns a copy of the collection, newest first.
func (s *Store) Snapshot() []domain.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.problems)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (domain.Problem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexByID(s.problems, id); i >= 0 {
		return s.problems[i].Clone(), true
	}
	return domain.Problem{}, false
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.problems)
}

// LastReload returns when Reload last succeeded.
func (s *Store) LastReload() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastReload
}

// Now returns the store clock, so callers stamp records consistently.
func (s *Store) Now() time.Time {
	return s.now()
}

// ExportFileName is the download/backup name for an export taken at t.
func ExportFileName(t time.Time) string {
	return "solvelog-backup-" + t.Format("2006-01-02") + ".json"
}

// Export writes the whole collection as one indented JSON array.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Reload
// ─────────────────────────────────────────────────────────────────

// Reload replaces the in-memory collection with the persisted one.
// A missing key loads an empty collection. Safe to call repeatedly.
func (s *Store) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	problems, err := s.load(ctx)
	s.observer.ObserveMutation(OpReload, err)
	if err != nil {
		return err
	}

	sortNewestFirst(problems)

	s.mu.Lock()
	s.problems = problems
	s.lastReload = s.now()
	s.mu.Unlock()

	s.observer.ObserveSize(len(problems))
	s.logger.Debug("problem log reloaded", logger.Int("count", len(problems)))
	return nil
}

func (s *Store) load(ctx context.Context) ([]domain.Problem, error) {
	data, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrPersistence, s.key, err)
	}
	if !found || len(data) == 0 {
		return []domain.Problem{}, nil
	}

	var problems []domain.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrPersistence, s.key, err)
	}
	if problems == nil {
		problems = []domain.Problem{}
	}
	return problems, nil
}

// ─────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────

// Track normalizes extracted metadata, stamps a new record and upserts it.
func (s *Store) Track(ctx context.Context, url string, meta domain.Metadata, fallbackTitle string) (domain.Problem, UpsertResult, error) {
	p := domain.NewProblem(domain.Normalize(meta, fallbackTitle), url, s.now(), s.newID)
	return s.upsert(ctx, p)
}

// Upsert inserts p, or replaces the record with the same URL.
//
// On update the existing ID and note are kept; platform, title, tags,
// difficulty and timestamp come from p.
func (s *Store) Upsert(ctx context.Context, p domain.Problem) (UpsertResult, error) {
	_, res, err := s.upsert(ctx, p)
	return res, err
}

// upsert returns the record as committed, read before writeMu is released.
func (s *Store) upsert(ctx context.Context, p domain.Problem) (domain.Problem, UpsertResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	stored, res := upsertInto(&next, p.Clone())

	if err := s.commit(ctx, OpUpsert, next); err != nil {
		return domain.Problem{}, 0, err
	}

	s.logger.Info("problem tracked",
		logger.String("url", p.URL),
		logger.String("id", stored.ID),
		logger.String("result", res.String()))
	return stored.Clone(), res, nil
}

// DeleteByID removes the record with id. Unknown ids are a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	i := indexByID(next, id)
	if i < 0 {
		s.logger.Debug("delete ignored, unknown id", logger.String("id", id))
		return nil
	}
	next = append(next[:i], next[i+1:]...)

	return s.commit(ctx, OpDelete, next)
}

// SetNote replaces the note of the record with id. Empty text clears it.
// Unknown ids are a no-op.
func (s *Store) SetNote(ctx context.Context, id, text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	i := indexByID(next, id)
	if i < 0 {
		s.logger.Debug("note ignored, unknown id", logger.String("id", id))
		return nil
	}
	next[i].Note = strings.TrimSpace(text)

	return s.commit(ctx, OpNote, next)
}

// ClearAll persists an empty collection. Irreversible.
func (s *Store) ClearAll(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.commit(ctx, OpClear, []domain.Problem{}); err != nil {
		return err
	}
	s.logger.Warn("problem log cleared")
	return nil
}

// ImportReport summarizes an Import call.
type ImportReport struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Import upserts a batch of records with a single write.
// Records without URL are skipped; missing ids and timestamps are filled in.
func (s *Store) Import(ctx context.Context, problems []domain.Problem) (ImportReport, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var report ImportReport
	next := s.current()
	now := s.now().UnixMilli()

	for _, p := range problems {
		p.URL = strings.TrimSpace(p.URL)
		if p.URL == "" {
			report.Skipped++
			continue
		}
		// A foreign id is only kept when no other URL already owns it.
		if p.ID == "" || (indexByURL(next, p.URL) < 0 && indexByID(next, p.ID) >= 0) {
			p.ID = s.newID()
		}
		if p.Timestamp == 0 {
			p.Timestamp = now
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		switch _, res := upsertInto(&next, p.Clone()); res {
		case Inserted:
			report.Inserted++
		case Updated:
			report.Updated++
		}
	}

	if report.Inserted+report.Updated == 0 {
		return report, nil
	}
	if err := s.commit(ctx, OpImport, next); err != nil {
		return ImportReport{}, err
	}

	s.logger.Info("problems imported",
		logger.Int("inserted", report.Inserted),
		logger.Int("updated", report.Updated),
		logger.Int("skipped", report.Skipped))
	return report, nil
}

// current returns a private copy of the collection to mutate.
// Callers must hold writeMu.
func (s *Store) current() []domain.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.problems)
}

// commit persists next and, only on success, makes it the live collection.
// Callers must hold writeMu.
func (s *Store) commit(ctx context.Context, op string, next []domain.Problem) error {
	data, err := json.Marshal(next)
	if err != nil {
		err = fmt.Errorf("%w: encode %s: %w", ErrPersistence, s.key, err)
		s.observer.ObserveMutation(op, err)
		return err
	}

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		err = fmt.Errorf("%w: save %s: %w", ErrPersistence, s.key, err)
		s.observer.ObserveMutation(op, err)
		s.logger.Error("failed to persist problem log",
			logger.String("op", op),
			logger.Error(err))
		return err
	}

	sortNewestFirst(next)

	s.mu.Lock()
	s.problems = next
	s.mu.Unlock()

	s.observer.ObserveMutation(op, nil)
	s.observer.ObserveSize(len(next))
	return nil
}

// ─────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────

// upsertInto replaces the record sharing p's URL, or appends p, and
// returns the record as stored.
func upsertInto(problems *[]domain.Problem, p domain.Problem) (domain.Problem, UpsertResult) {
	i := indexByURL(*problems, p.URL)
	if i < 0 {
		*problems = append(*problems, p)
		return p, Inserted
	}
	existing := (*problems)[i]
	p.ID = existing.ID
	if p.Note == "" {
		p.Note = existing.Note
	}
	(*problems)[i] = p
	return p, Updated
}

func indexByURL(problems []domain.Problem, url string) int {
	for i, p := range problems {
		if p.URL == url {
			return i
		}
	}
	return -1
}

func indexByID(problems []domain.Problem, id string) int {
	for i, p := range problems {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func sortNewestFirst(problems []domain.Problem) {
	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Timestamp > problems[j].Timestamp
	})
}

func cloneAll(problems []domain.Problem) []domain.Problem {
	out := make([]domain.Problem, len(problems))
	for i, p := range problems {
		out[i] = p.Clone()
	}
	return out
}
