package relay

import (
	"context"

	"igrelay/pkg/instagram"
	"igrelay/pkg/retry"
	"igrelay/pkg/state"
)

// deliverPost translates one post into outbound messages, branching on
// media type. Every send is wrapped in the bounded retry policy; the
// first exhausted send aborts the post.
func (e *Engine) deliverPost(ctx context.Context, account state.Account, post instagram.Post) error {
	switch post.MediaType {
	case instagram.MediaTypeImage:
		if err := e.send(ctx, func() error {
			return e.messenger.SendPhoto(ctx, account.ChatID, post.MediaURL)
		}); err != nil {
			return err
		}

	case instagram.MediaTypeVideo:
		if err := e.send(ctx, func() error {
			return e.messenger.SendVideo(ctx, account.ChatID, post.MediaURL, post.ThumbnailURL)
		}); err != nil {
			return err
		}

	case instagram.MediaTypeAlbum:
		if err := e.deliverAlbum(ctx, account, post); err != nil {
			return err
		}

	default:
		e.logger.WithFields(map[string]interface{}{
			"account":    account.Name,
			"post_id":    post.ID,
			"media_type": string(post.MediaType),
		}).Warn("unrecognized media type, dropping post")
		return nil
	}

	if post.Caption != "" {
		if err := e.send(ctx, func() error {
			return e.messenger.SendText(ctx, account.ChatID, post.Caption)
		}); err != nil {
			return err
		}
	}

	return nil
}

// deliverAlbum fetches an album's children and sends the photo subset as
// one grouped message. Video children are partitioned out but not sent;
// whether they should be delivered separately is unresolved product
// behavior, so they are dropped the way they always have been.
func (e *Engine) deliverAlbum(ctx context.Context, account state.Account, post instagram.Post) error {
	if e.limiter != nil {
		e.limiter.Wait()
	}

	children, err := e.fetcher.AlbumChildren(ctx, post.ID, account.AccessToken)
	if err != nil {
		return err
	}

	var photos []string
	var videos []instagram.Child
	for _, child := range children {
		switch child.MediaType {
		case instagram.MediaTypeVideo:
			videos = append(videos, child)
		default:
			photos = append(photos, child.MediaURL)
		}
	}

	if len(videos) > 0 {
		e.logger.WithFields(map[string]interface{}{
			"account": account.Name,
			"post_id": post.ID,
			"videos":  len(videos),
		}).Debug("album contains videos, delivering photo items only")
	}

	if len(photos) == 0 {
		return nil
	}

	return e.send(ctx, func() error {
		return e.messenger.SendMediaGroup(ctx, account.ChatID, photos)
	})
}

// send runs one outbound call under the configured retry policy
func (e *Engine) send(ctx context.Context, op retry.Operation) error {
	cfg := retry.FixedPolicy(e.retryCfg.MaxAttempts, e.retryCfg.Delay, e.logger)
	cfg.Context = ctx

	if e.limiter != nil {
		e.limiter.Wait()
	}

	return retry.Do(op, cfg)
}
