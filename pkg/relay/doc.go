// Package relay implements new-post detection and at-most-once delivery.
//
// The engine polls each enabled account on a fixed interval, compares
// fetched posts against a per-account timestamp cursor, and forwards
// the new ones to the account's Telegram chat in the order they were
// published. State is persisted after every delivery, so a crash can
// duplicate at most the one post that was in flight.
//
// Detection rules, in order:
//
//  1. If the most recent fetched post id equals the stored
//     lastProcessedPostId, nothing changed: the pass ends with no state
//     write.
//  2. If the account has no cursor yet, the cursor is seeded from the
//     most recent post and no history is delivered.
//  3. Otherwise a post is new iff its timestamp exceeds the cursor by
//     more than the guard window.
//
// The cursor only moves forward, and the engine never runs two passes
// concurrently: accounts within a tick are processed sequentially.
package relay
