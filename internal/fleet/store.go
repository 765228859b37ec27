// internal/fleet/store.go
package fleet

import (
	"context"
	"sync"
	"time"

	"uav-maintenance-service/internal/domain/uav"
	"uav-maintenance-service/internal/pkg/metrics"

	"go.uber.org/zap"
)

// State is a point-in-time copy of the fleet collection.
type State struct {
	Records         []uav.UAV    `json:"records"`
	SearchTerm      string       `json:"search_term"`
	StatusFilter    StatusFilter `json:"status_filter"`
	FilteredRecords []uav.UAV    `json:"filtered_records"`
	IsLoading       bool         `json:"is_loading"`
	LastError       string       `json:"last_error,omitempty"`
}

// Summary is the compact view pushed to websocket clients.
type Summary struct {
	IsLoading    bool           `json:"is_loading"`
	LastError    string         `json:"last_error,omitempty"`
	SearchTerm   string         `json:"search_term"`
	StatusFilter StatusFilter   `json:"status_filter"`
	Total        int            `json:"total"`
	Filtered     int            `json:"filtered"`
	Dashboard    DashboardStats `json:"dashboard"`
}

func (st State) Summary(now time.Time) Summary {
	return Summary{
		IsLoading:    st.IsLoading,
		LastError:    st.LastError,
		SearchTerm:   st.SearchTerm,
		StatusFilter: st.StatusFilter,
		Total:        len(st.Records),
		Filtered:     len(st.FilteredRecords),
		Dashboard:    ComputeDashboardStats(st.Records, now),
	}
}

// Listener is called after every state transition, outside the store lock.
type Listener func(State)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Store is the single source of truth for the fleet collection.
// Every mutation goes to the remote store and is followed by a full reload.
type Store struct {
	remote  uav.RecordStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu           sync.RWMutex
	records      []uav.UAV
	filtered     []uav.UAV
	searchTerm   string
	statusFilter StatusFilter
	inFlight     int
	lastError    string
	listeners    []Listener

	// serializes ListAll+replace so a reload started after a mutation
	// completes can never be overwritten by an older listing
	reloadMu sync.Mutex
}

func NewStore(remote uav.RecordStore, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		remote:       remote,
		logger:       logger,
		now:          time.Now,
		records:      []uav.UAV{},
		filtered:     []uav.UAV{},
		statusFilter: FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// ========== Round-trips ==========

// Reload replaces the collection with the remote store's listing.
// On failure the previous records are kept.
func (s *Store) Reload(ctx context.Context) error {
	return s.roundTrip(ctx, "reload", nil)
}

// Create inserts a record remotely, then reloads. Nothing is inserted locally.
func (s *Store) Create(ctx context.Context, req *uav.CreateUAVRequest) error {
	return s.roundTrip(ctx, "create", func(ctx context.Context) error {
		return s.remote.Insert(ctx, req)
	})
}

// Update patches the record remotely, then reloads.
func (s *Store) Update(ctx context.Context, id string, req *uav.UpdateUAVRequest) error {
	return s.roundTrip(ctx, "update", func(ctx context.Context) error {
		return s.remote.Patch(ctx, id, req)
	})
}

// Remove deletes the record remotely, then reloads.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.roundTrip(ctx, "remove", func(ctx context.Context) error {
		return s.remote.Delete(ctx, id)
	})
}

func (s *Store) roundTrip(ctx context.Context, op string, mutate func(context.Context) error) error {
	s.begin()
	start := time.Now()

	var err error
	if mutate != nil {
		err = mutate(ctx)
	}
	if err == nil {
		err = s.load(ctx)
	}

	var storeErr error
	if err != nil {
		storeErr = &RemoteStoreError{Op: op, Err: err}
	}
	s.finish(op, storeErr, time.Since(start))
	return storeErr
}

func (s *Store) load(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	records, err := s.remote.ListAll(ctx)
	if err != nil {
		return err
	}
	if records == nil {
		records = []uav.UAV{}
	}

	s.mu.Lock()
	s.records = records
	s.filtered = Filter(records, s.searchTerm, s.statusFilter)
	s.mu.Unlock()
	return nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.lastError = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) finish(op string, err error, elapsed time.Duration) {
	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.lastError = err.Error()
	}
	total := len(s.records)
	s.mu.Unlock()

	s.metrics.ObserveStoreOp(op, err, elapsed)
	if err != nil {
		s.logger.Error("fleet round-trip failed",
			zap.String("op", op),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	} else {
		s.logger.Info("fleet round-trip completed",
			zap.String("op", op),
			zap.Int("records", total),
			zap.Duration("duration", elapsed),
		)
	}
	s.notify()
}

// ========== Local filter state ==========

// SetSearchTerm updates the search term and re-derives the filtered view.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.filtered = Filter(s.records, s.searchTerm, s.statusFilter)
	s.mu.Unlock()
	s.notify()
}

// SetStatusFilter updates the status filter and re-derives the filtered view.
func (s *Store) SetStatusFilter(filter StatusFilter) {
	if filter == "" {
		filter = FilterAll
	}
	s.mu.Lock()
	s.statusFilter = filter
	s.filtered = Filter(s.records, s.searchTerm, s.statusFilter)
	s.mu.Unlock()
	s.notify()
}

// ========== Reads ==========

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		Records:         cloneRecords(s.records),
		SearchTerm:      s.searchTerm,
		StatusFilter:    s.statusFilter,
		FilteredRecords: cloneRecords(s.filtered),
		IsLoading:       s.inFlight > 0,
		LastError:       s.lastError,
	}
}

func (s *Store) Records() []uav.UAV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

func (s *Store) FilteredRecords() []uav.UAV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.filtered)
}

// Find looks a record up in the loaded collection.
func (s *Store) Find(id string) (uav.UAV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return uav.UAV{}, false
}

func (s *Store) Summary() Summary {
	return s.Snapshot().Summary(s.now())
}

func (s *Store) Now() time.Time {
	return s.now()
}

// ========== Aggregations ==========

func (s *Store) DashboardStats() DashboardStats {
	return ComputeDashboardStats(s.Records(), s.now())
}

func (s *Store) StatusDistribution() []StatusCount {
	return StatusDistribution(s.Records())
}

func (s *Store) LocationDistribution() []LocationCount {
	return LocationDistribution(s.Records())
}

func (s *Store) ArrivalsTimeSeries(windowDays int) []DailyCount {
	return ArrivalsTimeSeries(s.Records(), s.now(), windowDays)
}

func (s *Store) TopMalfunctions(limit int) []MalfunctionCount {
	return TopMalfunctions(s.Records(), limit)
}

func (s *Store) RecentArrivals(limit int) []uav.UAV {
	return RecentArrivals(s.Records(), limit)
}

// ========== Observers ==========

// Subscribe registers a listener for state transitions.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	if len(s.listeners) == 0 {
		loading := s.inFlight > 0
		total := len(s.records)
		s.mu.RUnlock()
		s.metrics.SetFleetState(total, loading)
		return
	}
	state := s.snapshotLocked()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	s.metrics.SetFleetState(len(state.Records), state.IsLoading)
	for _, l := range listeners {
		l(state)
	}
}

func cloneRecords(records []uav.UAV) []uav.UAV {
	out := make([]uav.UAV, len(records))
	copy(out, records)
	return out
}
