package store

import (
	"encoding/json"
	"os"
	"time"

	"lhwatch/pkg/logx"
)

// maxSeenIDs bounds seen.json; the oldest ids are evicted first once the
// cap is exceeded.
const maxSeenIDs = 500

type seenState struct {
	SeenIDs   []string `json:"seen_ids"`
	LastCheck *string  `json:"last_check"`
}

// SeenStore tracks which announcement ids have already been confirmed so the
// same listing is never notified twice. MarkSeen mutates memory only; state
// reaches disk on UpdateCheckTime or Save.
type SeenStore struct {
	log   logx.Logger
	path  string
	state seenState

	now func() time.Time
}

// OpenSeen loads the persisted state. A missing file yields empty state;
// an unreadable one logs a warning and also yields empty state.
func OpenSeen(path string, log logx.Logger) *SeenStore {
	s := &SeenStore{
		log:   log,
		path:  path,
		state: seenState{SeenIDs: []string{}},
		now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("seen state unreadable, starting empty", logx.String("path", path), logx.Err(err))
		}
		return s
	}

	var loaded seenState
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("seen state corrupt, starting empty", logx.String("path", path), logx.Err(err))
		return s
	}
	if loaded.SeenIDs == nil {
		loaded.SeenIDs = []string{}
	}
	s.state = loaded
	return s
}

// IsNew reports whether the id has not been marked seen.
func (s *SeenStore) IsNew(id string) bool {
	for _, seen := range s.state.SeenIDs {
		if seen == id {
			return false
		}
	}
	return true
}

// MarkSeen records the id in memory. Already-present ids are ignored; on
// overflow the oldest entries are dropped from the front.
func (s *SeenStore) MarkSeen(id string) {
	if !s.IsNew(id) {
		return
	}
	s.state.SeenIDs = append(s.state.SeenIDs, id)
	if n := len(s.state.SeenIDs); n > maxSeenIDs {
		s.state.SeenIDs = s.state.SeenIDs[n-maxSeenIDs:]
	}
}

// LastCheck returns the recorded last-check timestamp, if any.
func (s *SeenStore) LastCheck() (string, bool) {
	if s.state.LastCheck == nil {
		return "", false
	}
	return *s.state.LastCheck, true
}

// UpdateCheckTime stamps the current time and persists the full state.
func (s *SeenStore) UpdateCheckTime() error {
	ts := s.now().Format(time.RFC3339)
	s.state.LastCheck = &ts
	return s.Save()
}

// Save writes the state to disk.
func (s *SeenStore) Save() error {
	return writeJSONFile(s.path, s.state)
}
