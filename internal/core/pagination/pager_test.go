package pagination

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string
	Owner string
}

// memTable serves rows newest-first with an id cursor, like the store backends
type memTable struct {
	rows []row
	mu   sync.Mutex
}

func (m *memTable) insert(owner string) row {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := row{ID: uuid.Must(uuid.NewV7()).String(), Owner: owner}
	m.rows = append(m.rows, r)
	return r
}

func (m *memTable) fetch(_ context.Context, owner string, limit int, after string) ([]row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]row(nil), m.rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	var out []row
	for _, r := range sorted {
		if owner != "" && r.Owner != owner {
			continue
		}
		if after != "" && r.ID >= after {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func rowID(r row) string { return r.ID }

func TestBuild(t *testing.T) {
	ids := func(r string) string { return r }

	page := Build([]string{"c", "b"}, 2, ids)
	require.NotNil(t, page.Next)
	assert.Equal(t, "b", *page.Next)

	page = Build([]string{"c"}, 2, ids)
	assert.Nil(t, page.Next, "short page has no next cursor")

	page = Build[string](nil, 2, ids)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}

// P5: walking pages visits every item exactly once in descending id order
func TestDrain_ExactlyOnceDescending(t *testing.T) {
	table := &memTable{}
	for i := 0; i < 47; i++ {
		table.insert("")
	}
	pager := NewPager(table.fetch, rowID)

	var seen []string
	err := Drain(context.Background(), pager, "", 10, func(r row) error {
		seen = append(seen, r.ID)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, seen, 47)
	assert.True(t, sort.SliceIsSorted(seen, func(i, j int) bool { return seen[i] > seen[j] }))

	unique := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		unique[id] = struct{}{}
	}
	assert.Len(t, unique, 47)
}

// P5: inserts during iteration never cause duplicates and the walk still terminates
func TestDrain_TerminatesUnderConcurrentInserts(t *testing.T) {
	table := &memTable{}
	for i := 0; i < 30; i++ {
		table.insert("")
	}
	pager := NewPager(table.fetch, rowID)

	seen := map[string]int{}
	err := Drain(context.Background(), pager, "", 7, func(r row) error {
		seen[r.ID]++
		table.insert("")
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 30, "rows created after the walk started sort ahead of the cursor")
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s visited more than once", id)
	}
}

func TestDrain_ExactMultipleOfLimitEndsOnEmptyPage(t *testing.T) {
	table := &memTable{}
	for i := 0; i < 20; i++ {
		table.insert("")
	}

	var calls int
	pager := NewPager(func(ctx context.Context, f string, limit int, after string) ([]row, error) {
		calls++
		return table.fetch(ctx, f, limit, after)
	}, rowID)

	count := 0
	require.NoError(t, Drain(context.Background(), pager, "", 10, func(row) error {
		count++
		return nil
	}))
	assert.Equal(t, 20, count)
	assert.Equal(t, 3, calls)
}

func TestDrain_StopsOnVisitError(t *testing.T) {
	table := &memTable{}
	for i := 0; i < 5; i++ {
		table.insert("")
	}
	boom := errors.New("boom")

	err := Drain(context.Background(), NewPager(table.fetch, rowID), "", 2, func(row) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPage_FilterIsPassedThrough(t *testing.T) {
	table := &memTable{}
	table.insert("alice")
	bob := table.insert("bob")
	table.insert("alice")

	page, err := NewPager(table.fetch, rowID).Page(context.Background(), "bob", 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, bob.ID, page.Items[0].ID)
	assert.Nil(t, page.Next)
}

func TestPage_RejectsBadInput(t *testing.T) {
	pager := NewPager((&memTable{}).fetch, rowID)

	_, err := pager.Page(context.Background(), "", 0, "")
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = pager.Page(context.Background(), "", 10, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	canonical := uuid.Must(uuid.NewV7()).String()
	_, err = pager.Page(context.Background(), "", 10, canonical)
	assert.NoError(t, err)

	for name, cursor := range map[string]string{
		"uppercase": strings.ToUpper(canonical),
		"undashed":  strings.ReplaceAll(canonical, "-", ""),
		"urn":       "urn:uuid:" + canonical,
		"braced":    "{" + canonical + "}",
	} {
		_, err = pager.Page(context.Background(), "", 10, cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor, name)

		_, err = Params{After: cursor}.Normalize(20, 100)
		assert.ErrorIs(t, err, ErrInvalidCursor, name)
	}
}

func TestParamsNormalize(t *testing.T) {
	valid := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		wantErr error
		name    string
		in      Params
		want    int
	}{
		{name: "default when zero", in: Params{}, want: 20},
		{name: "kept when in range", in: Params{Limit: 5}, want: 5},
		{name: "clamped to max", in: Params{Limit: 1000}, want: 100},
		{name: "negative rejected", in: Params{Limit: -1}, wantErr: ErrInvalidLimit},
		{name: "valid cursor", in: Params{Limit: 5, After: valid}, want: 5},
		{name: "bad cursor", in: Params{After: "abc"}, wantErr: ErrInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize(20, 100)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}
