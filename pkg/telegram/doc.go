// Package telegram provides a client for the Bot API methods the relay uses
// to deliver posts (sendPhoto, sendVideo, sendMediaGroup, sendMessage) and a
// long-polling listener for the single recognized bot command, /start.
//
// Example usage:
//
//	client := telegram.NewClient(&cfg.Telegram, logger.GetLogger())
//
//	if err := client.SendPhoto(ctx, account.ChatID, post.MediaURL); err != nil {
//	    // Delivery failures are retried by the caller
//	}
//
//	listener := telegram.NewCommandListener(client, logger.GetLogger())
//	go listener.Run(ctx)
package telegram
