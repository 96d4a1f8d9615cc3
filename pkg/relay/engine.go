package relay

import (
	"context"
	"sort"
	"time"

	"igrelay/pkg/config"
	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
	"igrelay/pkg/ratelimit"
	"igrelay/pkg/state"
)

// GuardWindow is the tolerance applied when comparing post timestamps to
// the stored cursor. Posts within this window of the cursor are not
// treated as new, absorbing clock skew and near-duplicate timestamps
// from the provider.
const GuardWindow = 60 * time.Second

// PostFetcher fetches posts and album children for an account
type PostFetcher interface {
	AccountPosts(ctx context.Context, accessToken string) ([]instagram.Post, error)
	AlbumChildren(ctx context.Context, postID, accessToken string) ([]instagram.Child, error)
}

// Messenger delivers messages to a destination chat
type Messenger interface {
	SendPhoto(ctx context.Context, chatID, photoURL string) error
	SendVideo(ctx context.Context, chatID, videoURL, thumbnailURL string) error
	SendMediaGroup(ctx context.Context, chatID string, photoURLs []string) error
	SendText(ctx context.Context, chatID, text string) error
}

// Engine drives the periodic sync loop: on each tick it walks the
// enabled accounts sequentially, detects posts newer than each account's
// cursor, delivers them in chronological order, and advances the
// persisted state after every delivery.
type Engine struct {
	store     *state.Store
	fetcher   PostFetcher
	messenger Messenger
	retryCfg  *config.RetryConfig
	limiter   ratelimit.Limiter
	logger    logger.Logger
}

// NewEngine creates a sync engine. The limiter may be nil to disable
// request pacing.
func NewEngine(store *state.Store, fetcher PostFetcher, messenger Messenger, retryCfg *config.RetryConfig, limiter ratelimit.Limiter, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		store:     store,
		fetcher:   fetcher,
		messenger: messenger,
		retryCfg:  retryCfg,
		limiter:   limiter,
		logger:    log,
	}
}

// Run executes sync ticks until the context is cancelled. The first tick
// runs immediately, then every check_interval thereafter.
func (e *Engine) Run(ctx context.Context) {
	interval := e.store.Settings().Interval()

	e.logger.InfoWithFields("sync engine started", map[string]interface{}{
		"interval": interval.String(),
	})

	e.RunTick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("sync engine stopped")
			return
		case <-ticker.C:
			e.RunTick(ctx)
		}
	}
}

// RunTick processes all enabled accounts once, sequentially. A failure
// in one account's pass is logged and does not affect the others.
func (e *Engine) RunTick(ctx context.Context) {
	accounts := e.store.EnabledAccounts()
	pauseFor := e.store.Settings().Pause()

	for i, account := range accounts {
		if ctx.Err() != nil {
			return
		}

		if err := e.syncAccount(ctx, account); err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"account_id": account.ID,
				"account":    account.Name,
			}).Error("sync pass failed")
		}

		if i < len(accounts)-1 {
			if err := pause(ctx, pauseFor); err != nil {
				return
			}
		}
	}
}

// syncAccount runs one account's pass: fetch, detect, deliver, advance
func (e *Engine) syncAccount(ctx context.Context, account state.Account) error {
	if e.limiter != nil {
		e.limiter.Wait()
	}

	posts, err := e.fetcher.AccountPosts(ctx, account.AccessToken)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		e.logger.WithField("account", account.Name).Warn("no posts returned, skipping pass")
		return nil
	}

	// Most recent first
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp.Time)
	})
	mostRecent := posts[0]

	// Nothing changed since the last pass
	if mostRecent.ID == e.store.LastProcessed(account.ID) {
		e.logger.WithField("account", account.Name).Debug("most recent post already processed")
		return nil
	}

	cursor, observed := e.store.Cursor(account.ID)

	// First observation: establish the watermark without backfilling
	// history.
	if !observed {
		e.store.SetCursor(account.ID, mostRecent.Timestamp.Time)
		e.store.SetLastProcessed(account.ID, mostRecent.ID)
		if err := e.store.Save(); err != nil {
			return err
		}
		e.logger.WithFields(map[string]interface{}{
			"account": account.Name,
			"cursor":  mostRecent.Timestamp.Format(time.RFC3339),
		}).Info("account seen for the first time, cursor seeded")
		return nil
	}

	fresh := selectNew(posts, cursor)

	delivered := 0
	pauseFor := e.store.Settings().Pause()

	// Deliver oldest first so the chat reads in publication order
	for i := len(fresh) - 1; i >= 0; i-- {
		post := fresh[i]

		if post.ID == e.store.LastProcessed(account.ID) {
			continue
		}

		if err := e.deliverPost(ctx, account, post); err != nil {
			logger.LogDelivery(account.Name, post.ID, string(post.MediaType), false, err)
			return err
		}
		logger.LogDelivery(account.Name, post.ID, string(post.MediaType), true, nil)

		e.store.SetLastProcessed(account.ID, post.ID)
		if err := e.store.Save(); err != nil {
			return err
		}
		delivered++

		if err := pause(ctx, pauseFor); err != nil {
			return err
		}
	}

	if e.store.SetCursor(account.ID, mostRecent.Timestamp.Time) {
		if err := e.store.Save(); err != nil {
			return err
		}
	}

	logger.LogPassSummary(account.Name, len(posts), len(fresh), delivered)
	return nil
}

// selectNew returns the posts strictly newer than the cursor by more
// than the guard window, preserving the descending input order.
func selectNew(posts []instagram.Post, cursor time.Time) []instagram.Post {
	var fresh []instagram.Post
	for _, post := range posts {
		ts := post.Timestamp.Time
		if ts.After(cursor) && ts.Sub(cursor) > GuardWindow {
			fresh = append(fresh, post)
		}
	}
	return fresh
}

// pause sleeps for the given duration or until the context is cancelled
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
