package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"igrelay/pkg/config"
	"igrelay/pkg/logger"
)

const (
	// DefaultCheckInterval is used when the state file carries no interval
	DefaultCheckInterval = 5 * time.Minute

	// DefaultRetryDelay is used when the state file carries no delay
	DefaultRetryDelay = 5 * time.Second
)

// Account is one monitored source-destination pairing: an Instagram
// business account relayed into a Telegram chat. Everything except the
// sync cursor is treated as immutable configuration.
type Account struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ChatID              string `json:"chat_id"`
	AccessToken         string `json:"access_token"`
	Enabled             bool   `json:"enabled"`
	LastProcessedPostID string `json:"lastProcessedPostId,omitempty"`
}

// Settings holds the sync timing knobs, stored as milliseconds
type Settings struct {
	CheckIntervalMs int64 `json:"check_interval"`
	RetryDelayMs    int64 `json:"retry_delay"`
}

// Interval returns the sync period as a duration
func (s Settings) Interval() time.Duration {
	if s.CheckIntervalMs <= 0 {
		return DefaultCheckInterval
	}
	return time.Duration(s.CheckIntervalMs) * time.Millisecond
}

// Pause returns the inter-post and inter-account delay as a duration
func (s Settings) Pause() time.Duration {
	if s.RetryDelayMs <= 0 {
		return DefaultRetryDelay
	}
	return time.Duration(s.RetryDelayMs) * time.Millisecond
}

// document is the on-disk shape of the main state file
type document struct {
	Accounts []Account `json:"accounts"`
	Settings Settings  `json:"settings"`
}

// Store owns the persisted sync state: the account list with per-account
// lastProcessedPostId, the shared settings, and the timestamp cursors.
// Cursors live in a second file mapping account id to an RFC 3339
// timestamp or null ("never observed").
type Store struct {
	mu sync.RWMutex

	stateFile  string
	cursorFile string

	accounts []Account
	settings Settings
	cursors  map[string]*time.Time

	logger logger.Logger
}

// Load reads the state file and the cursor file. A missing cursor file is
// treated as "no account observed yet"; a missing or unparseable state
// file is an error the caller should treat as fatal.
func Load(cfg *config.StateConfig, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", cfg.File, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", cfg.File, err)
	}

	cursors, err := loadCursors(cfg.CursorFile)
	if err != nil {
		return nil, err
	}

	log.InfoWithFields("state loaded", map[string]interface{}{
		"state_file":  cfg.File,
		"cursor_file": cfg.CursorFile,
		"accounts":    len(doc.Accounts),
	})

	return &Store{
		stateFile:  cfg.File,
		cursorFile: cfg.CursorFile,
		accounts:   doc.Accounts,
		settings:   doc.Settings,
		cursors:    cursors,
		logger:     log,
	}, nil
}

func loadCursors(path string) (map[string]*time.Time, error) {
	cursors := make(map[string]*time.Time)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cursors, nil
		}
		return nil, fmt.Errorf("failed to read cursor file %s: %w", path, err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cursor file %s: %w", path, err)
	}

	for id, value := range raw {
		if value == nil {
			cursors[id] = nil
			continue
		}
		ts, err := time.Parse(time.RFC3339, *value)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor timestamp for account %s: %w", id, err)
		}
		t := ts
		cursors[id] = &t
	}

	return cursors, nil
}

// Accounts returns a copy of all configured accounts
func (s *Store) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// EnabledAccounts returns the accounts participating in sync, in
// configuration order
func (s *Store) EnabledAccounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Account
	for _, account := range s.accounts {
		if account.Enabled {
			out = append(out, account)
		}
	}
	return out
}

// Settings returns the shared timing settings
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Cursor returns the timestamp cursor for an account. ok is false when
// the account has never been observed.
func (s *Store) Cursor(accountID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cursor, exists := s.cursors[accountID]
	if !exists || cursor == nil {
		return time.Time{}, false
	}
	return *cursor, true
}

// LastProcessed returns the last delivered post id for an account
func (s *Store) LastProcessed(accountID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.ID == accountID {
			return account.LastProcessedPostID
		}
	}
	return ""
}

// SetCursor advances the timestamp cursor for an account. The cursor is
// forward-only: an earlier timestamp is ignored. Returns true if the
// cursor changed.
func (s *Store) SetCursor(accountID string, ts time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.cursors[accountID]
	if exists && current != nil && !ts.After(*current) {
		return false
	}

	t := ts
	s.cursors[accountID] = &t
	return true
}

// SetLastProcessed records the id of the most recently delivered post for
// an account. Returns true if the value changed.
func (s *Store) SetLastProcessed(accountID, postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == accountID {
			if s.accounts[i].LastProcessedPostID == postID {
				return false
			}
			s.accounts[i].LastProcessedPostID = postID
			return true
		}
	}
	return false
}

// SetEnabled toggles an account on or off. Returns true if the account
// exists and the flag changed.
func (s *Store) SetEnabled(accountID string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == accountID {
			if s.accounts[i].Enabled == enabled {
				return false
			}
			s.accounts[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Save persists both documents atomically: each file is written to a
// temp file, synced, and renamed into place. The account list, settings,
// and cursors are flushed together so the on-disk state is always a
// consistent snapshot.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := document{
		Accounts: make([]Account, len(s.accounts)),
		Settings: s.settings,
	}
	copy(doc.Accounts, s.accounts)

	raw := make(map[string]*string, len(s.cursors))
	for id, cursor := range s.cursors {
		if cursor == nil {
			raw[id] = nil
			continue
		}
		formatted := cursor.Format(time.RFC3339)
		raw[id] = &formatted
	}
	s.mu.RUnlock()

	if err := writeJSON(s.stateFile, doc); err != nil {
		return fmt.Errorf("failed to save state file: %w", err)
	}
	if err := writeJSON(s.cursorFile, raw); err != nil {
		return fmt.Errorf("failed to save cursor file: %w", err)
	}

	s.logger.Debug("state saved")
	return nil
}

// writeJSON writes v to path atomically
func writeJSON(path string, v interface{}) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
