package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golfmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

type fakeMatchSource struct {
	mu           sync.Mutex
	backlog      []models.MatchWithProfile
	backlogErr   error
	backlogGate  chan struct{}
	backlogCalls int
	records      map[string]models.MatchWithProfile
	fetchCalls   map[string]int
	seenCalls    []string
	seenErr      error
}

func newFakeMatchSource() *fakeMatchSource {
	return &fakeMatchSource{
		records:    make(map[string]models.MatchWithProfile),
		fetchCalls: make(map[string]int),
	}
}

func (f *fakeMatchSource) GetUnseenMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	f.mu.Lock()
	gate := f.backlogGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.backlogCalls++
	if f.backlogErr != nil {
		return nil, f.backlogErr
	}
	out := make([]models.MatchWithProfile, len(f.backlog))
	copy(out, f.backlog)
	return out, nil
}

func (f *fakeMatchSource) GetMatchWithProfiles(ctx context.Context, matchID string) (*models.MatchWithProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls[matchID]++
	record, ok := f.records[matchID]
	if !ok {
		return nil, fmt.Errorf("match '%s' not found", matchID)
	}
	return &record, nil
}

func (f *fakeMatchSource) MarkMatchSeen(ctx context.Context, matchID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seenCalls = append(f.seenCalls, matchID+"/"+userID)
	return f.seenErr
}

func (f *fakeMatchSource) seenFor(matchID, userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.seenCalls {
		if call == matchID+"/"+userID {
			return true
		}
	}
	return false
}

func (f *fakeMatchSource) backlogCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backlogCalls
}

func (f *fakeMatchSource) fetchCount(matchID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls[matchID]
}

type fakeChannelResolver struct {
	mu      sync.Mutex
	channel models.Channel
	err     error
	calls   []string
}

func (f *fakeChannelResolver) ResolveOrCreateChannel(ctx context.Context, matchID, userA, userB string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, matchID)
	if f.err != nil {
		return nil, f.err
	}
	channel := f.channel
	channel.MatchID = matchID
	return &channel, nil
}

type fakePresenter struct {
	mu     sync.Mutex
	shows  []models.MatchWithProfile
	clears int
	navs   []models.ChatNavigation
}

func (p *fakePresenter) ShowMatch(userID string, match models.MatchWithProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shows = append(p.shows, match)
}

func (p *fakePresenter) ClearMatch(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
}

func (p *fakePresenter) NavigateToChat(userID string, nav models.ChatNavigation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navs = append(p.navs, nav)
}

func (p *fakePresenter) showIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.shows))
	for i, match := range p.shows {
		ids[i] = match.MatchID
	}
	return ids
}

func (p *fakePresenter) navCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.navs)
}

func (p *fakePresenter) lastNav() models.ChatNavigation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navs[len(p.navs)-1]
}

// snapshot reads the controller state for assertions
func (c *Controller) snapshot() (current string, queue []string, shown int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		current = c.current.MatchID
	}
	for _, match := range c.queue {
		queue = append(queue, match.MatchID)
	}
	return current, queue, len(c.shown)
}

func record(id, user1, user2 string) models.MatchWithProfile {
	return models.MatchWithProfile{
		MatchID:   id,
		User1ID:   user1,
		User2ID:   user2,
		CreatedAt: "2026-03-01T10:00:00Z",
		User1:     models.ParticipantProfile{UserID: user1, Name: "Golfer " + user1, Photo: user1 + ".jpg"},
		User2:     models.ParticipantProfile{UserID: user2, Name: "Golfer " + user2, Photo: user2 + ".jpg"},
	}
}

func event(id, user1, user2 string) models.MatchInsertEvent {
	return models.MatchInsertEvent{MatchID: id, User1ID: user1, User2ID: user2, CreatedAt: "2026-03-01T10:00:00Z"}
}

func waitForCurrent(t *testing.T, c *Controller, matchID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		current, _, _ := c.snapshot()
		return current == matchID
	}, waitFor, tick, "expected match %s to be showing", matchID)
}

func TestAttachLoadsBacklogAndShowsHead(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()

	waitForCurrent(t, ctrl, "A")
	_, queue, shown := ctrl.snapshot()
	assert.Equal(t, []string{"B"}, queue)
	assert.Equal(t, 1, shown)
	assert.Equal(t, []string{"A"}, presenter.showIDs())
}

func TestAdvanceDebouncesToNextMatch(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, 5*time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.Advance()
	waitForCurrent(t, ctrl, "B")

	_, queue, _ := ctrl.snapshot()
	assert.Empty(t, queue)
	assert.Equal(t, []string{"A", "B"}, presenter.showIDs())
	require.Eventually(t, func() bool {
		return source.seenFor("A", "u1")
	}, waitFor, tick)
}

func TestLiveEventWhileShowingAppends(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	source.records["C"] = record("C", "u4", "u1")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.OnMatchInserted(event("C", "u4", "u1"))

	require.Eventually(t, func() bool {
		_, queue, _ := ctrl.snapshot()
		return len(queue) == 2
	}, waitFor, tick)
	current, queue, _ := ctrl.snapshot()
	assert.Equal(t, "A", current)
	assert.Equal(t, []string{"B", "C"}, queue)
}

func TestLiveEventWhenIdleShowsImmediately(t *testing.T) {
	source := newFakeMatchSource()
	source.records["D"] = record("D", "u1", "u9")
	presenter := &fakePresenter{}
	// A huge debounce proves the fast path: only an immediate show could
	// land within the test window.
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Hour)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	require.Eventually(t, func() bool {
		return source.backlogCallCount() == 1
	}, waitFor, tick)

	ctrl.OnMatchInserted(event("D", "u1", "u9"))
	waitForCurrent(t, ctrl, "D")
	assert.Equal(t, []string{"D"}, presenter.showIDs())
}

func TestIrrelevantEventIgnored(t *testing.T) {
	source := newFakeMatchSource()
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()

	ctrl.OnMatchInserted(event("X", "u7", "u8"))

	require.Never(t, func() bool {
		return source.fetchCount("X") > 0
	}, 50*time.Millisecond, tick)
}

func TestDuplicateLiveEventIgnored(t *testing.T) {
	source := newFakeMatchSource()
	source.records["D"] = record("D", "u1", "u9")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	ctrl.OnMatchInserted(event("D", "u1", "u9"))
	waitForCurrent(t, ctrl, "D")

	ctrl.OnMatchInserted(event("D", "u1", "u9"))

	require.Never(t, func() bool {
		return source.fetchCount("D") > 1
	}, 50*time.Millisecond, tick)
	assert.Equal(t, []string{"D"}, presenter.showIDs())
}

func TestMarkSeenFailureStillAdvances(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	source.seenErr = errors.New("write rejected")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.Advance()
	waitForCurrent(t, ctrl, "B")
	assert.Equal(t, []string{"A", "B"}, presenter.showIDs())
}

func TestDetachDropsInFlightBacklog(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2")}
	source.backlogGate = make(chan struct{})
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	ctrl.Detach()
	close(source.backlogGate)

	require.Never(t, func() bool {
		current, queue, _ := ctrl.snapshot()
		return current != "" || len(queue) > 0
	}, 100*time.Millisecond, tick)
	assert.Empty(t, presenter.showIDs())
}

func TestDetachThenAttachStartsFresh(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	waitForCurrent(t, ctrl, "A")
	ctrl.Detach()

	current, queue, shown := ctrl.snapshot()
	assert.Empty(t, current)
	assert.Empty(t, queue)
	assert.Zero(t, shown)

	source.mu.Lock()
	source.backlog = []models.MatchWithProfile{record("B", "u2", "u3")}
	source.mu.Unlock()

	ctrl.Attach("u2")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "B")

	_, _, shown = ctrl.snapshot()
	assert.Equal(t, 1, shown)
}

func TestAttachSameUserIsNoOp(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.Attach("u1")

	require.Never(t, func() bool {
		return source.backlogCallCount() > 1
	}, 50*time.Millisecond, tick)
	assert.Equal(t, []string{"A"}, presenter.showIDs())
}

func TestBacklogMergeSkipsMatchAlreadyShownLive(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	source.backlogGate = make(chan struct{})
	source.records["A"] = record("A", "u1", "u2")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()

	// The live event for A wins the race against the backlog fetch.
	ctrl.OnMatchInserted(event("A", "u1", "u2"))
	waitForCurrent(t, ctrl, "A")
	close(source.backlogGate)

	require.Eventually(t, func() bool {
		_, queue, _ := ctrl.snapshot()
		return len(queue) == 1
	}, waitFor, tick)
	current, queue, _ := ctrl.snapshot()
	assert.Equal(t, "A", current)
	assert.Equal(t, []string{"B"}, queue)
	assert.Equal(t, []string{"A"}, presenter.showIDs())
}

func TestLiveEventDuringDebounceKeepsQueuedMatch(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	source.records["C"] = record("C", "u1", "u4")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, 50*time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	// C lands in the idle window between dismissing A and the debounced pop
	// of B; it takes the screen and B stays queued for the next Advance.
	ctrl.Advance()
	ctrl.OnMatchInserted(event("C", "u1", "u4"))
	waitForCurrent(t, ctrl, "C")

	time.Sleep(80 * time.Millisecond)
	current, queue, _ := ctrl.snapshot()
	assert.Equal(t, "C", current)
	assert.Equal(t, []string{"B"}, queue)

	ctrl.Advance()
	waitForCurrent(t, ctrl, "B")
	assert.Equal(t, []string{"A", "C", "B"}, presenter.showIDs())
}

func TestOnSendMessageNavigatesToChannel(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2")}
	channels := &fakeChannelResolver{channel: models.Channel{ChannelID: "chan-1"}}
	presenter := &fakePresenter{}
	ctrl := NewController(source, channels, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.OnSendMessage("A")

	require.Eventually(t, func() bool {
		return presenter.navCount() == 1
	}, waitFor, tick)
	nav := presenter.lastNav()
	assert.Equal(t, "chan-1", nav.ChannelID)
	assert.Equal(t, "A", nav.MatchID)
	assert.Equal(t, "u2", nav.OtherUser)
	assert.Equal(t, "Golfer u2", nav.Name)

	current, _, _ := ctrl.snapshot()
	assert.Empty(t, current)
	require.Eventually(t, func() bool {
		return source.seenFor("A", "u1")
	}, waitFor, tick)
}

func TestOnSendMessageChannelFailureStillAdvances(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2"), record("B", "u1", "u3")}
	channels := &fakeChannelResolver{err: errors.New("resolve failed")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, channels, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.OnSendMessage("A")
	waitForCurrent(t, ctrl, "B")

	require.Never(t, func() bool {
		return presenter.navCount() > 0
	}, 50*time.Millisecond, tick)
}

func TestOnCloseMismatchedIDIgnored(t *testing.T) {
	source := newFakeMatchSource()
	source.backlog = []models.MatchWithProfile{record("A", "u1", "u2")}
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	waitForCurrent(t, ctrl, "A")

	ctrl.OnClose("stale")

	current, _, _ := ctrl.snapshot()
	assert.Equal(t, "A", current)
	assert.False(t, source.seenFor("A", "u1"))
}

func TestBacklogFetchFailureDegradesToLiveOnly(t *testing.T) {
	source := newFakeMatchSource()
	source.backlogErr = errors.New("query failed")
	source.records["D"] = record("D", "u1", "u9")
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()
	require.Eventually(t, func() bool {
		return source.backlogCallCount() == 1
	}, waitFor, tick)

	ctrl.OnMatchInserted(event("D", "u1", "u9"))
	waitForCurrent(t, ctrl, "D")
}

func TestJoinedFetchFailureSkipsMatch(t *testing.T) {
	source := newFakeMatchSource()
	presenter := &fakePresenter{}
	ctrl := NewController(source, &fakeChannelResolver{}, nil, presenter, time.Millisecond)

	ctrl.Attach("u1")
	defer ctrl.Detach()

	// No joined record registered for E, the fetch fails.
	ctrl.OnMatchInserted(event("E", "u1", "u9"))

	require.Eventually(t, func() bool {
		return source.fetchCount("E") == 1
	}, waitFor, tick)
	require.Never(t, func() bool {
		current, queue, _ := ctrl.snapshot()
		return current != "" || len(queue) > 0
	}, 50*time.Millisecond, tick)
}
