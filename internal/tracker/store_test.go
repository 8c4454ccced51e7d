package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
	"github.com/MrSnakeDoc/solvelog/internal/idgen"
	"github.com/MrSnakeDoc/solvelog/internal/store/memory"
)

var errDisk = errors.New("disk full")

// flakyBackend wraps a memory backend and fails writes on demand.
type flakyBackend struct {
	*memory.Backend
	mu       sync.Mutex
	failSet  bool
	failGet  bool
	setCalls int
}

func newFlaky() *flakyBackend { return &flakyBackend{Backend: memory.New()} }

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	fail := b.failGet
	b.mu.Unlock()
	if fail {
		return nil, false, errDisk
	}
	return b.Backend.Get(ctx, key)
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	b.setCalls++
	fail := b.failSet
	b.mu.Unlock()
	if fail {
		return errDisk
	}
	return b.Backend.Set(ctx, key, value)
}

type recordingObserver struct {
	mu   sync.Mutex
	ops  []string
	errs int
	size int
}

func (o *recordingObserver) ObserveMutation(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	if err != nil {
		o.errs++
	}
}

func (o *recordingObserver) ObserveSize(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.size = n
}

// steppingClock advances by one minute on every call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Minute)
		return t
	}
}

var t0 = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, backend Backend, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{
		WithIDGenerator(idgen.Sequence("p")),
		WithClock(steppingClock(t0)),
	}, opts...)
	s := New(backend, opts...)
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func twoSum() domain.Metadata {
	return domain.Metadata{
		Platform:   domain.PlatformLeetCode,
		Title:      "Two Sum",
		Tags:       []string{"Array", "Hash Table"},
		Difficulty: "Easy",
	}
}

func TestReloadEmptyBackend(t *testing.T) {
	s := newTestStore(t, memory.New())

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Snapshot())
	assert.Equal(t, t0, s.LastReload())
}

func TestTrackInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	url := "https://leetcode.com/problems/two-sum/"

	first, res, err := s.Track(ctx, url, twoSum(), "Two Sum - LeetCode")
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)
	assert.Equal(t, "p-1", first.ID)
	assert.Equal(t, "Two Sum", first.Title)

	require.NoError(t, s.SetNote(ctx, first.ID, "  hash map, one pass  "))

	meta := twoSum()
	meta.Tags = []string{"Array"}
	second, res, err := s.Track(ctx, url, meta, "")
	require.NoError(t, err)
	assert.Equal(t, Updated, res)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, first.ID, second.ID, "id is preserved on update")
	assert.Equal(t, "hash map, one pass", second.Note, "note is preserved on update")
	assert.Equal(t, []string{"Array"}, second.Tags)
	assert.Greater(t, second.Timestamp, first.Timestamp)
}

func TestSameURLTwiceKeepsLatestTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	url := "https://codeforces.com/problemset/problem/4/A"

	first, _, err := s.Track(ctx, url, domain.Metadata{Title: "Watermelon (draft)"}, "")
	require.NoError(t, err)
	second, _, err := s.Track(ctx, url, domain.Metadata{Title: "Watermelon"}, "")
	require.NoError(t, err)
	require.Greater(t, second.Timestamp, first.Timestamp)

	all := s.Snapshot()
	require.Len(t, all, 1)
	assert.Equal(t, "Watermelon", all[0].Title)
	assert.Equal(t, second.Timestamp, all[0].Timestamp)
}

func TestTrackNormalizesMetadata(t *testing.T) {
	s := newTestStore(t, memory.New())

	p, _, err := s.Track(context.Background(), "https://example.com/x", domain.Metadata{
		Tags: []string{" dp ", "", "greedy"},
	}, "  Some   page   title ")
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformUnknown, p.Platform)
	assert.Equal(t, "Some page title", p.Title)
	assert.Equal(t, []string{"dp", "greedy"}, p.Tags)
	assert.Empty(t, p.Difficulty)
}

func TestSnapshotNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	for _, u := range []string{"https://a", "https://b", "https://c"} {
		_, _, err := s.Track(ctx, u, domain.Metadata{Title: u}, "")
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "https://c", snap[0].URL)
	assert.Equal(t, "https://a", snap[2].URL)

	// re-tracking moves the record to the top
	_, _, err := s.Track(ctx, "https://a", domain.Metadata{Title: "a"}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://a", s.Snapshot()[0].URL)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, memory.New())
	_, _, err := s.Track(context.Background(), "https://a", twoSum(), "")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Title = "changed"
	snap[0].Tags[0] = "changed"

	p, ok := s.Get(snap[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, "Array", p.Tags[0])
}

func TestReloadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	_, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)

	before := s.Snapshot()
	require.NoError(t, s.Reload(ctx))
	require.NoError(t, s.Reload(ctx))

	assert.Equal(t, before, s.Snapshot())
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	backend := newFlaky()
	s := newTestStore(t, backend)

	p, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	_, _, err = s.Track(ctx, "https://b", twoSum(), "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, p.ID))
	_, ok := s.Get(p.ID)
	assert.False(t, ok)

	// persisted: a fresh store on the same backend agrees
	other := newTestStore(t, backend)
	assert.Equal(t, 1, other.Len())
	assert.Equal(t, "https://b", other.Snapshot()[0].URL)
}

func TestDeleteUnknownIDDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	backend := newFlaky()
	s := newTestStore(t, backend)

	_, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	calls := backend.setCalls

	require.NoError(t, s.DeleteByID(ctx, "nope"))
	require.NoError(t, s.SetNote(ctx, "nope", "text"))
	assert.Equal(t, calls, backend.setCalls)
	assert.Equal(t, 1, s.Len())
}

func TestSetNoteClears(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	p, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)

	require.NoError(t, s.SetNote(ctx, p.ID, "first"))
	require.NoError(t, s.SetNote(ctx, p.ID, "   "))

	got, _ := s.Get(p.ID)
	assert.Empty(t, got.Note)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := newTestStore(t, backend)
	_, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))
	assert.Equal(t, 0, s.Len())

	data, found, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[]`, string(data))
}

func TestFailedWriteLeavesStateIntact(t *testing.T) {
	ctx := context.Background()
	backend := newFlaky()
	obs := &recordingObserver{}
	s := newTestStore(t, backend, WithObserver(obs))

	p, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	before := s.Snapshot()

	backend.failSet = true

	_, _, err = s.Track(ctx, "https://b", twoSum(), "")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errDisk)

	assert.ErrorIs(t, s.DeleteByID(ctx, p.ID), ErrPersistence)
	assert.ErrorIs(t, s.SetNote(ctx, p.ID, "note"), ErrPersistence)
	assert.ErrorIs(t, s.ClearAll(ctx), ErrPersistence)

	_, err = s.Import(ctx, []domain.Problem{{URL: "https://c"}})
	assert.ErrorIs(t, err, ErrPersistence)

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 5, obs.errs)
	assert.Equal(t, 1, obs.size)
}

func TestFailedReloadKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	backend := newFlaky()
	s := newTestStore(t, backend)
	_, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	reloadedAt := s.LastReload()

	backend.failGet = true
	assert.ErrorIs(t, s.Reload(ctx), ErrPersistence)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, reloadedAt, s.LastReload())
}

func TestReloadRejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(`{not json`)))

	s := New(backend)
	assert.ErrorIs(t, s.Reload(ctx), ErrPersistence)
	assert.Equal(t, 0, s.Len())
}

func TestReloadSortsPersistedDocument(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	doc := `[
		{"id":"old","url":"https://old","platform":"LeetCode","title":"Old","tags":[],"timestamp":1000},
		{"id":"new","url":"https://new","platform":"LeetCode","title":"New","tags":["DP"],"timestamp":2000}
	]`
	require.NoError(t, backend.Set(ctx, "custom", []byte(doc)))

	s := New(backend, WithKey("custom"))
	require.NoError(t, s.Reload(ctx))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "new", snap[0].ID)
	assert.Equal(t, "old", snap[1].ID)
}

func TestPersistedShape(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := newTestStore(t, backend)

	_, _, err := s.Track(ctx, "https://example.com/x", domain.Metadata{}, "")
	require.NoError(t, err)

	data, _, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "p-1", raw[0]["id"])
	assert.Equal(t, []any{}, raw[0]["tags"])
	assert.NotContains(t, raw[0], "difficulty")
	assert.NotContains(t, raw[0], "note")
	assert.EqualValues(t, t0.Add(time.Minute).UnixMilli(), raw[0]["timestamp"])
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	existing, _, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	require.NoError(t, s.SetNote(ctx, existing.ID, "keep me"))

	report, err := s.Import(ctx, []domain.Problem{
		{ID: "other", URL: "https://a", Title: "A again", Timestamp: 5},
		{URL: "https://b", Title: "B"},
		{URL: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Inserted: 1, Updated: 1, Skipped: 1}, report)

	a, ok := s.Get(existing.ID)
	require.True(t, ok)
	assert.Equal(t, "A again", a.Title)
	assert.Equal(t, "keep me", a.Note)

	var b domain.Problem
	for _, p := range s.Snapshot() {
		if p.URL == "https://b" {
			b = p
		}
	}
	assert.NotEmpty(t, b.ID)
	assert.NotZero(t, b.Timestamp)
	assert.NotNil(t, b.Tags)
}

func TestImportReassignsTakenIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	existing, _, err := s.Track(ctx, "https://leetcode.com/problems/two-sum/", twoSum(), "")
	require.NoError(t, err)

	report, err := s.Import(ctx, []domain.Problem{
		{ID: existing.ID, URL: "https://codeforces.com/problemset/problem/1/A", Title: "Theatre Square"},
		{ID: "dup", URL: "https://codeforces.com/problemset/problem/4/A", Title: "Watermelon"},
		{ID: "dup", URL: "https://codeforces.com/problemset/problem/71/A", Title: "Way Too Long Words"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted)

	seen := map[string]string{}
	for _, p := range s.Snapshot() {
		prev, dup := seen[p.ID]
		assert.False(t, dup, "id %q shared by %s and %s", p.ID, prev, p.URL)
		seen[p.ID] = p.URL
	}
	require.Len(t, seen, 4)
	assert.Equal(t, "https://leetcode.com/problems/two-sum/", seen[existing.ID])

	require.NoError(t, s.DeleteByID(ctx, existing.ID))
	_, ok := s.Get(existing.ID)
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestTrackReturnsCommittedRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	first, res, err := s.Track(ctx, "https://a", twoSum(), "")
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)
	require.NoError(t, s.SetNote(ctx, first.ID, "hash map"))

	second, res, err := s.Track(ctx, "https://a", domain.Metadata{Title: "Two Sum II"}, "")
	require.NoError(t, err)
	assert.Equal(t, Updated, res)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hash map", second.Note)

	stored, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, stored, second)
}

func TestImportNothingDoesNotWrite(t *testing.T) {
	backend := newFlaky()
	s := newTestStore(t, backend)

	report, err := s.Import(context.Background(), []domain.Problem{{URL: ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, backend.setCalls)
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t, memory.New())
	for _, u := range []string{"https://a", "https://b"} {
		_, _, err := src.Track(ctx, u, twoSum(), "")
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf))

	var exported []domain.Problem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))

	dst := newTestStore(t, memory.New())
	_, err := dst.Import(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestConcurrentTracking(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New())
	require.NoError(t, s.Reload(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := "https://example.com/" + string(rune('a'+i%5))
			_, _, err := s.Track(ctx, url, twoSum(), "")
			assert.NoError(t, err)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}

func TestUpsertResultString(t *testing.T) {
	assert.Equal(t, "inserted", Inserted.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unknown", UpsertResult(0).String())
}
