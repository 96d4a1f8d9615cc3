// Package state persists the relay's sync progress across restarts.
//
// Two JSON documents live on disk: the state file holding the account
// list (with each account's lastProcessedPostId) and the shared timing
// settings, and a cursor file mapping account id to the RFC 3339
// timestamp of the newest post already accounted for. Both are written
// atomically and always together, so a crash never leaves them
// half-updated relative to each other.
package state
