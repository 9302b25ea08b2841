// Package notify drives the match popup surface. Each signed-in user gets a
// controller that merges the server-side unseen backlog with live insert
// events and presents one match at a time, never repeating a match within the
// same session.
package notify

import (
	"context"
	"sync"
	"time"

	"golfmatch_server/models"

	"github.com/rs/zerolog/log"
)

// MatchSource is the pull side of match discovery: the unseen backlog, the
// joined display record, and the persistent seen flag.
type MatchSource interface {
	GetUnseenMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error)
	GetMatchWithProfiles(ctx context.Context, matchID string) (*models.MatchWithProfile, error)
	MarkMatchSeen(ctx context.Context, matchID, userID string) error
}

// ChannelResolver returns the DM channel for a match, creating it when needed
type ChannelResolver interface {
	ResolveOrCreateChannel(ctx context.Context, matchID, userA, userB string) (*models.Channel, error)
}

// FeedSource delivers raw match-insert rows as they are created
type FeedSource interface {
	Subscribe(buffer int) (<-chan models.MatchInsertEvent, func())
}

// Presenter is the device-facing surface the controller drives
type Presenter interface {
	ShowMatch(userID string, match models.MatchWithProfile)
	ClearMatch(userID string)
	NavigateToChat(userID string, nav models.ChatNavigation)
}

// Controller sequences match popups for one user's session. The queue, the
// shown-set, and the displayed match live for exactly one Attach/Detach
// lifetime; async fetch results are dropped when the session they started in
// is gone (epoch guard).
type Controller struct {
	matches      MatchSource
	channels     ChannelResolver
	feed         FeedSource
	presenter    Presenter
	advanceDelay time.Duration

	mu         sync.Mutex
	userID     string
	epoch      uint64
	queue      []models.MatchWithProfile
	shown      map[string]struct{}
	current    *models.MatchWithProfile
	timer      *time.Timer
	cancelFeed func()
}

func NewController(matches MatchSource, channels ChannelResolver, feed FeedSource, presenter Presenter, advanceDelay time.Duration) *Controller {
	if advanceDelay < 0 {
		advanceDelay = 0
	}
	return &Controller{
		matches:      matches,
		channels:     channels,
		feed:         feed,
		presenter:    presenter,
		advanceDelay: advanceDelay,
		shown:        make(map[string]struct{}),
	}
}

// Attach starts a session for userID: fresh queue and shown-set, a live feed
// subscription, and an async backlog load. Attaching the already-attached
// user is a no-op; attaching a different user (or "") tears the previous
// session down first.
func (c *Controller) Attach(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if userID == "" {
		c.teardownLocked()
		return
	}
	if c.userID == userID {
		return
	}
	if c.userID != "" {
		c.teardownLocked()
	}

	c.userID = userID
	c.epoch++
	c.queue = nil
	c.shown = make(map[string]struct{})
	c.current = nil
	epoch := c.epoch

	if c.feed != nil {
		events, cancel := c.feed.Subscribe(0)
		c.cancelFeed = cancel
		go c.consumeFeed(events)
	} else {
		log.Warn().Msgf("⚠️ No live feed available, matches for %s surface from backlog only", userID)
	}

	go c.loadBacklog(epoch, userID)
	log.Info().Msgf("🔔 Match notifications attached for user: %s", userID)
}

// Detach ends the session, canceling the subscription and discarding all
// queued state. Idempotent; must be called on logout or disconnect.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

func (c *Controller) teardownLocked() {
	if c.userID == "" {
		return
	}
	if c.cancelFeed != nil {
		c.cancelFeed()
		c.cancelFeed = nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.current != nil {
		c.presenter.ClearMatch(c.userID)
	}
	log.Info().Msgf("🔕 Match notifications detached for user: %s", c.userID)

	c.userID = ""
	c.queue = nil
	c.shown = nil
	c.current = nil
	c.epoch++
}

// LoadBacklog fetches the session user's unseen matches and merges them into
// the queue. Attach runs this automatically; calling it again is safe and
// only enqueues matches not already known.
func (c *Controller) LoadBacklog() {
	c.mu.Lock()
	epoch, userID := c.epoch, c.userID
	c.mu.Unlock()
	if userID == "" {
		return
	}
	c.loadBacklog(epoch, userID)
}

func (c *Controller) loadBacklog(epoch uint64, userID string) {
	matches, err := c.matches.GetUnseenMatches(context.Background(), userID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to load match backlog for %s", userID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}

	added := 0
	for _, match := range matches {
		if c.knownLocked(match.MatchID) {
			continue
		}
		c.queue = append(c.queue, match)
		added++
	}
	if added > 0 {
		log.Info().Msgf("📥 Queued %d unseen matches for %s", added, userID)
	}
	if c.current == nil {
		c.showNextLocked()
	}
}

func (c *Controller) consumeFeed(events <-chan models.MatchInsertEvent) {
	for event := range events {
		c.OnMatchInserted(event)
	}
}

// OnMatchInserted handles one raw insert row from the live feed. Irrelevant
// and already-known matches are dropped; survivors get their joined display
// record fetched in the background. The raw row is never rendered, the
// joined fetch is the source of truth for display data.
func (c *Controller) OnMatchInserted(event models.MatchInsertEvent) {
	c.mu.Lock()
	if c.userID == "" || !event.Involves(c.userID) || c.knownLocked(event.MatchID) {
		c.mu.Unlock()
		return
	}
	epoch := c.epoch
	c.mu.Unlock()

	go c.fetchAndEnqueue(epoch, event.MatchID)
}

func (c *Controller) fetchAndEnqueue(epoch uint64, matchID string) {
	match, err := c.matches.GetMatchWithProfiles(context.Background(), matchID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to fetch match %s, skipping notification", matchID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.knownLocked(matchID) {
		return
	}

	// A brand-new match takes the screen immediately when nothing is showing;
	// otherwise it waits its turn behind the queue.
	if c.current == nil {
		c.showLocked(*match)
	} else {
		c.queue = append(c.queue, *match)
	}
}

// Advance finishes the displayed match: its seen flag is written in the
// background (failure is logged, never blocks), the popup clears, and after a
// short debounce the next queued match is shown.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
}

func (c *Controller) advanceLocked() {
	if c.userID == "" || c.current == nil {
		return
	}

	finished := *c.current
	userID := c.userID
	go func() {
		if err := c.matches.MarkMatchSeen(context.Background(), finished.MatchID, userID); err != nil {
			log.Error().Err(err).Msgf("❌ Failed to mark match %s seen for %s", finished.MatchID, userID)
		}
	}()

	c.current = nil
	c.presenter.ClearMatch(userID)

	if len(c.queue) == 0 {
		return
	}
	epoch := c.epoch
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.advanceDelay, func() { c.advancePop(epoch) })
}

// advancePop runs when the debounce timer fires. The pop is skipped when the
// session changed or a live match already took the screen; a skipped match
// stays queued for the next Advance.
func (c *Controller) advancePop(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = nil
	if c.epoch != epoch || c.userID == "" || c.current != nil {
		return
	}
	c.showNextLocked()
}

// OnSendMessage handles the popup's chat action: the DM channel resolves in
// the background and the user is steered to it, while the popup advances
// right away. A stale or mismatched match id is ignored.
func (c *Controller) OnSendMessage(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.MatchID != matchID {
		return
	}

	match := *c.current
	userID := c.userID
	epoch := c.epoch
	go c.openChat(epoch, userID, match)

	c.advanceLocked()
}

// OnClose handles the popup's dismiss action
func (c *Controller) OnClose(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.MatchID != matchID {
		return
	}
	c.advanceLocked()
}

func (c *Controller) openChat(epoch uint64, userID string, match models.MatchWithProfile) {
	channel, err := c.channels.ResolveOrCreateChannel(context.Background(), match.MatchID, match.User1ID, match.User2ID)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to resolve channel for match %s", match.MatchID)
		return
	}

	c.mu.Lock()
	stale := c.epoch != epoch
	c.mu.Unlock()
	if stale {
		return
	}

	other := match.OtherParticipant(userID)
	c.presenter.NavigateToChat(userID, models.ChatNavigation{
		ChannelID: channel.ChannelID,
		MatchID:   match.MatchID,
		OtherUser: other.UserID,
		Name:      other.Name,
		Photo:     other.Photo,
	})
}

func (c *Controller) showNextLocked() {
	if len(c.queue) == 0 {
		return
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	c.showLocked(next)
}

func (c *Controller) showLocked(match models.MatchWithProfile) {
	c.shown[match.MatchID] = struct{}{}
	c.current = &match
	c.presenter.ShowMatch(c.userID, match)
	log.Info().Msgf("✨ Showing match %s to %s", match.MatchID, c.userID)
}

// knownLocked reports whether a match already lives anywhere in the session:
// shown, queued, or on screen.
func (c *Controller) knownLocked(matchID string) bool {
	if _, ok := c.shown[matchID]; ok {
		return true
	}
	if c.current != nil && c.current.MatchID == matchID {
		return true
	}
	for _, queued := range c.queue {
		if queued.MatchID == matchID {
			return true
		}
	}
	return false
}
