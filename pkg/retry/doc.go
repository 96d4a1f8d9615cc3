// Package retry provides bounded retry logic for handling transient failures
// in network operations against the Graph and Telegram APIs.
//
// Features:
//   - Constant and exponential backoff strategies
//   - Context support for cancellation
//   - Configurable retry predicates keyed off the API error taxonomy
//
// The relay applies one uniform policy to every outbound send: a fixed number
// of attempts with a constant delay between them.
//
//	cfg := retry.FixedPolicy(3, 5*time.Second, logger.GetLogger())
//	err := retry.Do(func() error {
//		return tg.SendPhoto(ctx, chatID, photoURL)
//	}, cfg)
package retry
