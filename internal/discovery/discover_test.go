package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/jonathan/connexion/internal/index"
	"github.com/jonathan/connexion/internal/search"
	"github.com/jonathan/connexion/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data  map[index.Domain][]string
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[index.Domain][]string)}
}

func (m *memStore) Load(_ context.Context, d index.Domain) ([]string, error) {
	return slices.Clone(m.data[d]), nil
}

func (m *memStore) Save(_ context.Context, d index.Domain, keys []string) error {
	m.saves++
	m.data[d] = slices.Clone(keys)
	return nil
}

type call struct {
	query string
	start int
}

// fakeClient serves canned pages keyed by query; failOn injects an error on a
// given query and start offset.
type fakeClient struct {
	total   map[string]int
	links   map[string][]string
	failOn  *call
	failErr error
	calls   []call
}

func (f *fakeClient) Search(_ context.Context, query string, start int) (*search.Page, error) {
	f.calls = append(f.calls, call{query, start})
	if f.failOn != nil && f.failOn.query == query && f.failOn.start == start {
		return nil, f.failErr
	}
	page := &search.Page{TotalResults: f.total[query]}
	links := f.links[query]
	lo := min(start-1, len(links))
	hi := min(lo+search.PageSize, len(links))
	for _, l := range links[lo:hi] {
		page.Items = append(page.Items, search.Item{Title: "title " + l, Link: l, Snippet: "snippet"})
	}
	return page, nil
}

func noShuffle([]string) {}

func profileLinks(n int, prefix string) []string {
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("https://linkedin.com/in/%s-%03d", prefix, i)
	}
	return links
}

func TestDiscover_PaginatesUntilTotal(t *testing.T) {
	client := &fakeClient{
		total: map[string]int{"q1": 25},
		links: map[string][]string{"q1": profileLinks(25, "a")},
	}
	idx := index.New(context.Background(), newMemStore())

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"q1"})
	require.NoError(t, err)

	assert.Equal(t, []call{{"q1", 1}, {"q1", 11}, {"q1", 21}}, client.calls)
	assert.Len(t, res.Profiles, 25)
	assert.Empty(t, res.Message)
	assert.Equal(t, 1, res.QueriesRun)
}

func TestDiscover_CapsAtMaxResults(t *testing.T) {
	client := &fakeClient{
		total: map[string]int{"q1": 5000},
		links: map[string][]string{"q1": profileLinks(150, "a")},
	}
	idx := index.New(context.Background(), newMemStore())

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"q1"})
	require.NoError(t, err)

	assert.Len(t, client.calls, 10)
	assert.Equal(t, 91, client.calls[len(client.calls)-1].start)
	assert.Len(t, res.Profiles, 100)
}

func TestDiscover_SkipsIndexedAndRepeatedProfiles(t *testing.T) {
	store := newMemStore()
	store.data[index.Profiles] = []string{"https://linkedin.com/in/known"}
	client := &fakeClient{
		total: map[string]int{"q1": 3, "q2": 2},
		links: map[string][]string{
			"q1": {"https://linkedin.com/in/known", "https://linkedin.com/in/new", "https://linkedin.com/in/other"},
			"q2": {"https://linkedin.com/in/new", "https://linkedin.com/in/third"},
		},
	}
	idx := index.New(context.Background(), store)

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"q1", "q2"})
	require.NoError(t, err)

	var urls []string
	for _, p := range res.Profiles {
		urls = append(urls, p.URL)
	}
	assert.Equal(t, []string{
		"https://linkedin.com/in/new",
		"https://linkedin.com/in/other",
		"https://linkedin.com/in/third",
	}, urls)
	assert.Equal(t, []string{
		"https://linkedin.com/in/known",
		"https://linkedin.com/in/new",
		"https://linkedin.com/in/other",
		"https://linkedin.com/in/third",
	}, store.data[index.Profiles])
	assert.Equal(t, []string{"q1", "q2"}, store.data[index.Queries])
}

func TestDiscover_MarksEmptyQueriesUsed(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{}
	idx := index.New(context.Background(), store)

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"empty"})
	require.NoError(t, err)

	assert.Empty(t, res.Profiles)
	assert.Equal(t, []string{"empty"}, store.data[index.Queries])
}

func TestDiscover_QuotaExhaustedKeepsPartialResults(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{
		total: map[string]int{"q1": 2, "q2": 30, "q3": 2},
		links: map[string][]string{
			"q1": profileLinks(2, "a"),
			"q2": profileLinks(30, "b"),
			"q3": profileLinks(2, "c"),
		},
		failOn:  &call{"q2", 11},
		failErr: &search.APIError{Code: 429, Message: "quota"},
	}
	idx := index.New(context.Background(), store)

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"q1", "q2", "q3"})
	require.NoError(t, err)

	assert.Equal(t, QuotaMessage, res.Message)
	assert.Len(t, res.Profiles, 12, "q1 plus the first page of q2")
	assert.Equal(t, 2, res.QueriesRun)
	assert.Equal(t, []string{"q1", "q2"}, store.data[index.Queries], "aborted query is still marked used")
	assert.Len(t, store.data[index.Profiles], 12)
	for _, c := range client.calls {
		assert.NotEqual(t, "q3", c.query)
	}
}

func TestDiscover_HardAPIErrorReportsCode(t *testing.T) {
	client := &fakeClient{
		failOn:  &call{"q1", 1},
		failErr: &search.APIError{Code: 403},
	}
	idx := index.New(context.Background(), newMemStore())

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(context.Background(), []string{"q1"})
	require.NoError(t, err)
	assert.Equal(t, "Google API Error 403", res.Message)
}

func TestDiscover_ShufflesQueries(t *testing.T) {
	client := &fakeClient{}
	idx := index.New(context.Background(), newMemStore())
	reverse := func(q []string) { slices.Reverse(q) }

	input := []string{"a", "b", "c"}
	_, err := New(client, idx, Options{Shuffle: reverse}).Discover(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b", "a"}, []string{client.calls[0].query, client.calls[1].query, client.calls[2].query})
	assert.Equal(t, []string{"a", "b", "c"}, input, "caller's slice is not reordered")
}

func TestDiscover_CancelledContextFlushes(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{}
	idx := index.New(context.Background(), store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(client, idx, Options{Shuffle: noShuffle}).Discover(ctx, []string{"q1"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotNil(t, res)
	assert.Positive(t, store.saves)
}

func TestProviderMessage(t *testing.T) {
	assert.Equal(t, QuotaMessage, ProviderMessage(search.ErrQuotaExhausted))
	assert.Equal(t, "Google API Error 500", ProviderMessage(&search.APIError{Code: 500}))
	assert.Contains(t, ProviderMessage(errors.New("dial tcp")), "dial tcp")
}

func TestDiscover_SinkReceivesEachQueryBeforeIndexing(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{
		total: map[string]int{"q1": 2, "q2": 2},
		links: map[string][]string{
			"q1": profileLinks(2, "a"),
			"q2": profileLinks(2, "b"),
		},
	}
	idx := index.New(context.Background(), store)

	var batches [][]string
	sink := func(_ context.Context, found []types.CandidateProfile) error {
		var urls []string
		for _, p := range found {
			assert.False(t, idx.Contains(index.Profiles, p.URL))
			urls = append(urls, p.URL)
		}
		batches = append(batches, urls)
		if len(batches) == 2 {
			return errors.New("queue unavailable")
		}
		return nil
	}

	res, err := New(client, idx, Options{Shuffle: noShuffle, Sink: sink}).Discover(context.Background(), []string{"q1", "q2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue unavailable")

	assert.Equal(t, [][]string{profileLinks(2, "a"), profileLinks(2, "b")}, batches)
	assert.Len(t, res.Profiles, 2)
	assert.Equal(t, profileLinks(2, "a"), store.data[index.Profiles])
	assert.Equal(t, []string{"q1"}, store.data[index.Queries])
}
