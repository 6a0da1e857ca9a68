package listsync_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangarview/internal/listsync"
)

// searchCall is one invocation of the fake collaborator. The test decides
// when and how it resolves by sending on resp, which lets tests interleave
// responses in any order.
type searchCall struct {
	filters string
	limit   int
	offset  int
	resp    chan searchResult
}

type searchResult struct {
	page listsync.Page[string]
	err  error
}

type fakeSearch struct {
	calls chan *searchCall
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{calls: make(chan *searchCall, 16)}
}

func (f *fakeSearch) fn(_ context.Context, filters string, limit, offset int) (listsync.Page[string], error) {
	c := &searchCall{filters: filters, limit: limit, offset: offset, resp: make(chan searchResult, 1)}
	f.calls <- c
	r := <-c.resp
	return r.page, r.err
}

// expectCall waits for the collaborator to be invoked
func (f *fakeSearch) expectCall(t *testing.T) *searchCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a search call, got none")
		return nil
	}
}

// expectNoCall asserts no fetch is issued within a grace period
func (f *fakeSearch) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected search call: limit=%d offset=%d", c.limit, c.offset)
	case <-time.After(50 * time.Millisecond):
	}
}

func (c *searchCall) succeed(items []string, total int) {
	c.resp <- searchResult{page: listsync.Page[string]{Items: items, TotalCount: total}}
}

func (c *searchCall) fail(err error) {
	c.resp <- searchResult{err: err}
}

func pageOf(prefix string, from, n int) []string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf("%s%d", prefix, from+i))
	}
	return items
}

// waitIdle polls until no fetch is reported in progress
func waitIdle(t *testing.T, l *listsync.Loader[string, string]) listsync.Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st := l.Status()
		if !st.LoadingInitial && !st.LoadingMore {
			return st
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("loader never became idle")
	return listsync.Status{}
}

func newLoader(fs *fakeSearch, limit int, filters *string) *listsync.Loader[string, string] {
	return listsync.New(fs.fn, func() string { return *filters }, listsync.WithLimit(limit))
}

func TestResetLoadsFirstPage(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := "quad"
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	st := l.Status()
	assert.True(t, st.LoadingInitial, "initial load flag should be up while fetch is in flight")
	assert.False(t, st.LoadingMore)

	call := fs.expectCall(t)
	assert.Equal(t, "quad", call.filters, "filters are read at initiation time")
	assert.Equal(t, 3, call.limit)
	assert.Equal(t, 0, call.offset, "a reset always starts at offset zero")
	call.succeed(pageOf("g", 0, 3), 7)

	st = waitIdle(t, l)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 7, st.TotalCount)
	assert.True(t, st.HasMore)
	assert.NoError(t, st.Err)

	snap := l.Snapshot()
	assert.Equal(t, []string{"g0", "g1", "g2"}, snap.Items)
}

func TestResetDroppedWhileInFlight(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := "a"
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	call := fs.expectCall(t)

	// Plain reset while a fetch is in flight is a no-op: no second fetch.
	filters = "ab"
	assert.False(t, l.Reset(context.Background(), false))
	fs.expectNoCall(t)

	call.succeed(pageOf("x", 0, 2), 2)
	st := waitIdle(t, l)
	assert.Equal(t, 2, st.Count)
	assert.False(t, st.HasMore)
}

func TestForceResetBypassesGuard(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := "mini"
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	slow := fs.expectCall(t)

	filters = "minimoa"
	require.True(t, l.Reset(context.Background(), true), "force reset must proceed past an in-flight fetch")
	fast := fs.expectCall(t)
	assert.Equal(t, "minimoa", fast.filters)

	// The newer session resolves first and wins.
	fast.succeed([]string{"minimoa"}, 1)
	st := waitIdle(t, l)
	assert.Equal(t, []string{"minimoa"}, l.Snapshot().Items)

	// The superseded response resolves afterwards and must never be observed.
	slow.succeed(pageOf("stale", 0, 3), 30)
	time.Sleep(30 * time.Millisecond)
	st = l.Status()
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, 1, st.TotalCount)
	assert.False(t, st.HasMore)
	assert.NoError(t, st.Err)
	assert.Equal(t, []string{"minimoa"}, l.Snapshot().Items)
}

func TestStaleErrorDiscardedSilently(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	slow := fs.expectCall(t)
	require.True(t, l.Reset(context.Background(), true))
	fast := fs.expectCall(t)

	fast.succeed(pageOf("n", 0, 1), 1)
	waitIdle(t, l)

	// A failing superseded fetch must not surface its error either.
	slow.fail(fmt.Errorf("connection reset"))
	time.Sleep(30 * time.Millisecond)
	assert.NoError(t, l.Status().Err)
	assert.Equal(t, []string{"n0"}, l.Snapshot().Items)
}

func TestLoadMoreAppendsAndAdvancesOffset(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed(pageOf("i", 0, 3), 7)
	waitIdle(t, l)

	require.True(t, l.LoadMore(context.Background()))
	st := l.Status()
	assert.True(t, st.LoadingMore)
	assert.False(t, st.LoadingInitial)

	call := fs.expectCall(t)
	assert.Equal(t, 3, call.offset, "continuation resumes where the last page ended")
	call.succeed(pageOf("i", 3, 3), 7)
	st = waitIdle(t, l)
	assert.Equal(t, 6, st.Count)
	assert.True(t, st.HasMore)

	require.True(t, l.LoadMore(context.Background()))
	call = fs.expectCall(t)
	assert.Equal(t, 6, call.offset)
	call.succeed(pageOf("i", 6, 1), 7)
	st = waitIdle(t, l)
	assert.Equal(t, 7, st.Count)
	assert.False(t, st.HasMore, "a short page ends the session")
	assert.Equal(t, pageOf("i", 0, 7), l.Snapshot().Items)
}

func TestHasMoreBoundary(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 30, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed(pageOf("s", 0, 30), 65)
	st := waitIdle(t, l)
	assert.True(t, st.HasMore)

	require.True(t, l.LoadMore(context.Background()))
	call := fs.expectCall(t)
	assert.Equal(t, 30, call.offset)
	call.succeed(pageOf("s", 30, 30), 65)
	st = waitIdle(t, l)
	assert.True(t, st.HasMore, "offset 60 of 65 still has a partial page left")

	require.True(t, l.LoadMore(context.Background()))
	call = fs.expectCall(t)
	assert.Equal(t, 60, call.offset)
	call.succeed(pageOf("s", 60, 5), 65)
	st = waitIdle(t, l)
	assert.Equal(t, 65, st.Count)
	assert.False(t, st.HasMore)
}

func TestHasMoreFalseOnExactFinalPage(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed(pageOf("e", 0, 3), 6)
	waitIdle(t, l)

	require.True(t, l.LoadMore(context.Background()))
	fs.expectCall(t).succeed(pageOf("e", 3, 3), 6)
	st := waitIdle(t, l)
	// Full page returned, but offset reached the total: nothing left.
	assert.Equal(t, 6, st.Count)
	assert.False(t, st.HasMore)
}

func TestLoadMoreNoops(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	// No session yet: programmer misuse, not an error.
	assert.False(t, l.LoadMore(context.Background()))
	fs.expectNoCall(t)

	require.True(t, l.Reset(context.Background(), false))
	call := fs.expectCall(t)

	// Fetch in flight: continuation is dropped, no force option exists.
	assert.False(t, l.LoadMore(context.Background()))
	fs.expectNoCall(t)

	call.succeed(pageOf("o", 0, 2), 2)
	waitIdle(t, l)

	// Session exhausted: no fetch issued.
	assert.False(t, l.LoadMore(context.Background()))
	fs.expectNoCall(t)
}

func TestEmptyResult(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := "no-such-gear"
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed(nil, 0)
	st := waitIdle(t, l)
	assert.Equal(t, 0, st.Count)
	assert.Equal(t, 0, st.TotalCount)
	assert.False(t, st.HasMore)
	assert.NoError(t, st.Err, "zero results is an empty state, not an error")
}

func TestFailedLoadMorePreservesList(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed([]string{"a", "b", "c"}, 6)
	waitIdle(t, l)

	require.True(t, l.LoadMore(context.Background()))
	fs.expectCall(t).fail(fmt.Errorf("server unavailable"))
	st := waitIdle(t, l)
	assert.EqualError(t, st.Err, "server unavailable")
	assert.Equal(t, []string{"a", "b", "c"}, l.Snapshot().Items)
	assert.True(t, st.HasMore, "a failed continuation stays retryable")

	// Retry resumes at the same offset and appends correctly.
	require.True(t, l.LoadMore(context.Background()))
	call := fs.expectCall(t)
	assert.Equal(t, 3, call.offset)
	call.succeed([]string{"d", "e", "f"}, 6)
	st = waitIdle(t, l)
	assert.NoError(t, st.Err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, l.Snapshot().Items)
}

func TestFailedResetKeepsPriorItems(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed([]string{"a", "b", "c"}, 3)
	waitIdle(t, l)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).fail(fmt.Errorf("timeout"))
	st := waitIdle(t, l)
	assert.EqualError(t, st.Err, "timeout")
	assert.Equal(t, []string{"a", "b", "c"}, l.Snapshot().Items, "a failed refresh must not blank the view")
	assert.False(t, st.HasMore, "continuation is disarmed after a failed reset")

	// The error clears on the next initiated fetch.
	require.True(t, l.Reset(context.Background(), false))
	assert.NoError(t, l.Status().Err)
	fs.expectCall(t).succeed([]string{"a"}, 1)
	waitIdle(t, l)
}

func TestForceResetSupersedesContinuation(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).succeed(pageOf("p", 0, 3), 9)
	waitIdle(t, l)

	require.True(t, l.LoadMore(context.Background()))
	cont := fs.expectCall(t)

	// A mutation elsewhere forces a refresh mid-continuation.
	require.True(t, l.Reset(context.Background(), true))
	refresh := fs.expectCall(t)
	refresh.succeed(pageOf("q", 0, 2), 2)
	waitIdle(t, l)

	cont.succeed(pageOf("p", 3, 3), 9)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []string{"q0", "q1"}, l.Snapshot().Items, "the superseded continuation must never append")
}

func TestClearError(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	l := newLoader(fs, 3, &filters)

	require.True(t, l.Reset(context.Background(), false))
	fs.expectCall(t).fail(fmt.Errorf("boom"))
	st := waitIdle(t, l)
	require.Error(t, st.Err)

	l.ClearError()
	assert.NoError(t, l.Status().Err)
}

func TestNotifyFiresOnStateTransitions(t *testing.T) {
	t.Parallel()
	fs := newFakeSearch()
	filters := ""
	notified := make(chan struct{}, 16)
	l := listsync.New(fs.fn, func() string { return filters },
		listsync.WithLimit(3),
		listsync.WithNotify(func() {
			select {
			case notified <- struct{}{}:
			default:
			}
		}))

	require.True(t, l.Reset(context.Background(), false))
	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("no notification on fetch initiation")
	}

	fs.expectCall(t).succeed([]string{"a"}, 1)
	waitIdle(t, l)
	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Fatal("no notification on fetch resolution")
	}
}
