// Package session holds per-session dashboard state: the analysis counters,
// the currently loaded dataset, and the memoization cache that keeps repeated
// loads of the same file from reparsing. Sessions are created explicitly and
// evicted by a background cleanup when idle.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/csv-dashboard/backend/internal/dataset"
	"github.com/csv-dashboard/backend/internal/models"
	"github.com/google/uuid"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion.
const MaxSessions = 50

// ErrNotFound is returned for operations on unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// LoaderFunc parses named CSV bytes into a Dataset. Tests swap in a counting
// wrapper to probe the memoization cache.
type LoaderFunc func(name string, data []byte) (*models.Dataset, error)

// Manager handles active dashboard sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*state
	loader   LoaderFunc
}

// state is the session-scoped context: counters, the current dataset, and
// the per-session dataset cache keyed by source fingerprint. The cache is
// never evicted within a session's lifetime.
type state struct {
	stats        models.SessionStats
	current      *models.Dataset
	cache        map[string]*models.Dataset
	lastAccessed time.Time
}

// NewManager creates a session manager using the standard dataset loader.
func NewManager() *Manager {
	return NewManagerWithLoader(dataset.Parse)
}

// NewManagerWithLoader creates a session manager with a custom loader.
func NewManagerWithLoader(loader LoaderFunc) *Manager {
	return &Manager{
		sessions: make(map[string]*state),
		loader:   loader,
	}
}

// Create starts a new session with zeroed counters.
func (m *Manager) Create() *models.AnalysisSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIfAtCapacityLocked()

	id := uuid.New().String()
	m.sessions[id] = &state{
		cache:        make(map[string]*models.Dataset),
		lastAccessed: time.Now(),
	}

	return &models.AnalysisSession{ID: id}
}

// Get returns the public view of a session.
func (m *Manager) Get(id string) (*models.AnalysisSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return viewLocked(id, st), true
}

// Touch updates the LastAccessed timestamp for a session so the cleanup
// loop keeps it alive.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok {
		return false
	}
	st.lastAccessed = time.Now()
	return true
}

// Dataset returns the session's currently loaded dataset, touching the
// session. The second return is false when the session is unknown or has no
// dataset yet.
func (m *Manager) Dataset(id string) (*models.Dataset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok || st.current == nil {
		return nil, false
	}
	st.lastAccessed = time.Now()
	return st.current, true
}

// LoadResult describes one completed upload event.
type LoadResult struct {
	Dataset *models.Dataset
	Record  models.UploadRecord
	Stats   models.SessionStats
	Cached  bool
}

// LoadDataset runs the load pipeline for one upload event: parse (or cache
// hit on the source fingerprint), bump the analysis counter and timestamp,
// and produce the upload record for the history log. A parse failure leaves
// the session untouched: no counter bump, no record.
func (m *Manager) LoadDataset(id, filename string, data []byte) (*LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	st.lastAccessed = time.Now()

	fingerprint := dataset.Fingerprint(filename, data)
	ds, cached := st.cache[fingerprint]
	if !cached {
		parsed, err := m.loader(filename, data)
		if err != nil {
			return nil, err
		}
		st.cache[fingerprint] = parsed
		ds = parsed
	}
	st.current = ds

	// A cache hit is still one analysis: memoization only skips reparsing,
	// never the bookkeeping.
	st.stats.AnalysisCount++
	st.stats.LastAnalysis = time.Now().Format(models.TimestampLayout)

	fmt.Printf("[Session %s] Loaded %s: %d rows, %d columns (cached=%v, analyses=%d)\n",
		shortID(id), filename, ds.RowCount, len(ds.Columns), cached, st.stats.AnalysisCount)

	return &LoadResult{
		Dataset: ds,
		Record: models.UploadRecord{
			Filename:  filename,
			Timestamp: st.stats.LastAnalysis,
			Rows:      ds.RowCount,
			Columns:   len(ds.Columns),
		},
		Stats:  st.stats,
		Cached: cached,
	}, nil
}

// CleanupIdleSessions removes sessions that have not been touched within
// maxIdle. Called periodically from the server's cleanup goroutine.
func (m *Manager) CleanupIdleSessions(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for id, st := range m.sessions {
		if st.lastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			fmt.Printf("[Session %s] Cleaned up idle session (last accessed %s ago)\n",
				shortID(id), time.Since(st.lastAccessed).Round(time.Second))
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictIfAtCapacityLocked drops the longest-idle session when at the cap.
func (m *Manager) evictIfAtCapacityLocked() {
	if len(m.sessions) < MaxSessions {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, st := range m.sessions {
		if oldestID == "" || st.lastAccessed.Before(oldest) {
			oldestID = id
			oldest = st.lastAccessed
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		fmt.Printf("[Session %s] Evicted oldest session at capacity\n", shortID(oldestID))
	}
}

func viewLocked(id string, st *state) *models.AnalysisSession {
	s := &models.AnalysisSession{
		ID:    id,
		Stats: st.stats,
	}
	if st.current != nil {
		s.Loaded = true
		s.Filename = st.current.SourceName
		s.Rows = st.current.RowCount
		s.Columns = len(st.current.Columns)
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
