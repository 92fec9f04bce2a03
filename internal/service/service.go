package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dastanaron/echohive/internal/logger"
	"github.com/dastanaron/echohive/internal/metrics"
	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/persistence"
	"github.com/dastanaron/echohive/internal/repository"
	"github.com/dastanaron/echohive/internal/rotation"
	"github.com/dastanaron/echohive/internal/state"
	"github.com/dastanaron/echohive/internal/store"
	"github.com/dastanaron/echohive/internal/view"
)

// Confirm asks the user whether the item may be deleted
type Confirm func(models.ContentItem) bool

// RotateFunc receives the slideshow item after every timer tick.
// ok is false when the collection is empty.
type RotateFunc func(item models.ContentItem, ok bool)

// Options configures a ContentService
type Options struct {
	Profile models.Profile
	Period  time.Duration
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Now overrides the clock used for timestamp ids
	Now func() time.Time
}

// ContentService provides business logic for the content collection.
// Every event runs to completion under one mutex before the next starts.
type ContentService struct {
	mu     sync.Mutex
	st     state.State
	env    state.Env
	bridge *persistence.Bridge
	log    logger.Logger

	metrics *metrics.Metrics

	timer   *rotation.Timer
	timerMu sync.Mutex
	started bool

	hookMu   sync.RWMutex
	onRotate RotateFunc
}

// NewContentService creates a new content service on top of a key-value store
func NewContentService(kv repository.KeyValue, opts Options) *ContentService {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(logger.String("profile", opts.Profile.Name))

	s := &ContentService{
		env:     state.Env{Profile: opts.Profile, Now: opts.Now},
		bridge:  persistence.NewBridge(kv, opts.Profile, log, opts.Metrics),
		log:     log,
		metrics: opts.Metrics,
		st:      state.New(store.New(nil), models.ThemeLight),
	}
	s.timer = rotation.NewTimer(opts.Period, s.tick)
	return s
}

// Profile returns the profile the service runs
func (s *ContentService) Profile() models.Profile {
	return s.env.Profile
}

// Open loads the persisted collection and theme
func (s *ContentService) Open(ctx context.Context) {
	snap := s.bridge.Load(ctx)
	theme := s.bridge.LoadTheme(ctx)

	s.mu.Lock()
	s.st = state.New(snap.Collection(), theme)
	n := s.st.Items.Len()
	s.mu.Unlock()

	if snap.FromSeed {
		s.log.Info("Using seed collection", logger.String("reason", snap.Reason), logger.Int("items", n))
	} else {
		s.log.Info("Loaded collection", logger.Int("items", n))
	}
	s.gauge(n)
	s.syncTimer()
}

// Start arms the rotation timer
func (s *ContentService) Start() {
	s.timerMu.Lock()
	s.started = true
	s.timerMu.Unlock()
	s.syncTimer()
}

// Close releases the rotation timer
func (s *ContentService) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.started = false
	s.timer.Stop()
}

// Rotating reports whether the rotation timer is armed
func (s *ContentService) Rotating() bool {
	return s.timer.Armed()
}

// OnRotate installs the slideshow callback. It runs outside the service lock.
func (s *ContentService) OnRotate(fn RotateFunc) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onRotate = fn
}

// Create adds an item built from f. Returns false when a required field is blank.
func (s *ContentService) Create(ctx context.Context, f models.Fields) (models.ContentItem, bool) {
	out := s.dispatch(ctx, state.Create(f))
	return out.Item, out.Applied
}

// Update replaces the editable fields of an item. Returns false for unknown
// ids and blank required fields.
func (s *ContentService) Update(ctx context.Context, id int64, f models.Fields) (models.ContentItem, bool) {
	out := s.dispatch(ctx, state.Update(id, f))
	return out.Item, out.Applied
}

// Delete removes an item. When the profile asks for confirmation, a nil or
// declining confirm leaves the collection unchanged.
func (s *ContentService) Delete(ctx context.Context, id int64, confirm Confirm) bool {
	if s.env.Profile.ConfirmDelete {
		item, ok := s.Get(id)
		if !ok {
			s.metrics.Mutation(state.KindDelete.String(), metrics.ResultMissing)
			return false
		}
		if confirm == nil || !confirm(item) {
			s.metrics.Mutation(state.KindDelete.String(), metrics.ResultDeclined)
			s.log.Debug("Delete declined", logger.Int64("id", id))
			return false
		}
	}
	return s.dispatch(ctx, state.Delete(id)).Applied
}

// Like adds one like to an item
func (s *ContentService) Like(ctx context.Context, id int64) (models.ContentItem, bool) {
	out := s.dispatch(ctx, state.Like(id))
	return out.Item, out.Applied
}

// Share returns the share notice for an item
func (s *ContentService) Share(id int64) (string, bool) {
	out := s.dispatch(context.Background(), state.Share(id))
	if !out.Applied {
		return "", false
	}
	return ShareMessage(out.Item), true
}

// ShareMessage formats the notice shown when an item is shared
func ShareMessage(item models.ContentItem) string {
	return fmt.Sprintf("Sharing %q!", item.Title)
}

// SetSearch changes the search text and returns to the first page
func (s *ContentService) SetSearch(text string) view.Projection {
	return s.project(state.Search(text))
}

// SetFilter changes the filter value and returns to the first page
func (s *ContentService) SetFilter(value string) view.Projection {
	return s.project(state.Filter(value))
}

// SetPage moves to a page
func (s *ContentService) SetPage(page int) view.Projection {
	return s.project(state.Page(page))
}

// ToggleTheme flips the theme and persists it
func (s *ContentService) ToggleTheme(ctx context.Context) models.Theme {
	return s.dispatch(ctx, state.ToggleTheme()).State.Theme
}

// Reset drops the persisted collection and reloads the seed
func (s *ContentService) Reset(ctx context.Context) error {
	if err := s.bridge.Reset(ctx); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}
	seed := s.bridge.Load(ctx)

	s.mu.Lock()
	s.st = state.New(seed.Collection(), s.st.Theme)
	n := s.st.Items.Len()
	s.mu.Unlock()

	s.log.Info("Collection reset to seed", logger.Int("items", n))
	s.gauge(n)
	s.syncTimer()
	return nil
}

// Snapshot returns a copy of the current state
func (s *ContentService) Snapshot() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Items returns the whole collection in order
func (s *ContentService) Items() []models.ContentItem {
	return s.Snapshot().Items.Items()
}

// Get returns one item by id
func (s *ContentService) Get(id int64) (models.ContentItem, bool) {
	return s.Snapshot().Items.Get(id)
}

// View returns the current page of the filtered collection
func (s *ContentService) View() view.Projection {
	return s.Snapshot().View(s.env.Profile)
}

// FilterOptions lists the values the filter control offers
func (s *ContentService) FilterOptions() []string {
	return view.FilterOptions(s.env.Profile, s.Items())
}

// Theme returns the current theme
func (s *ContentService) Theme() models.Theme {
	return s.Snapshot().Theme
}

// Slide returns the item under the slideshow cursor
func (s *ContentService) Slide() (models.ContentItem, bool) {
	return s.Snapshot().Current()
}

func (s *ContentService) project(in state.Intent) view.Projection {
	out := s.dispatch(context.Background(), in)
	return out.State.View(s.env.Profile)
}

func (s *ContentService) dispatch(ctx context.Context, in state.Intent) state.Outcome {
	s.mu.Lock()
	out := state.Reduce(s.st, in, s.env)
	s.st = out.State
	if out.ItemsChanged {
		s.persistItems(ctx, out)
	}
	if out.ThemeChanged {
		if err := s.bridge.SaveTheme(ctx, out.State.Theme); err != nil {
			s.log.Error("Persist theme failed", logger.Error(err))
		}
	}
	s.mu.Unlock()

	s.record(in.Kind, out)
	if out.LengthChanged {
		s.syncTimer()
	}
	return out
}

// persistItems runs under s.mu so writes land in event order
func (s *ContentService) persistItems(ctx context.Context, out state.Outcome) {
	if err := s.bridge.Save(ctx, out.State.Items); err != nil {
		s.log.Error("Persist collection failed", logger.Error(err))
	}
}

func (s *ContentService) record(kind state.Kind, out state.Outcome) {
	switch kind {
	case state.KindCreate, state.KindUpdate:
		if out.Applied {
			s.metrics.Mutation(kind.String(), metrics.ResultApplied)
			s.log.Debug("Item saved", logger.String("op", kind.String()), logger.Int64("id", out.Item.ID))
		} else {
			s.metrics.Mutation(kind.String(), metrics.ResultRejected)
		}
	case state.KindDelete, state.KindLike, state.KindShare:
		if out.Applied {
			s.metrics.Mutation(kind.String(), metrics.ResultApplied)
		} else {
			s.metrics.Mutation(kind.String(), metrics.ResultMissing)
		}
	}
	if out.ItemsChanged {
		s.gauge(out.State.Items.Len())
	}
}

func (s *ContentService) gauge(n int) {
	if s.metrics != nil {
		s.metrics.CollectionSize.Set(float64(n))
	}
}

// syncTimer re-arms the timer for the current length, or stops it while
// the collection is empty. Never call it with s.mu held.
func (s *ContentService) syncTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if !s.started {
		return
	}
	s.mu.Lock()
	n := s.st.Items.Len()
	s.mu.Unlock()

	if n == 0 {
		s.timer.Stop()
		return
	}
	s.timer.Arm()
}

// tick runs on the timer goroutine
func (s *ContentService) tick() {
	s.mu.Lock()
	s.st = state.Reduce(s.st, state.Tick(), s.env).State
	item, ok := s.st.Current()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RotationTicks.Inc()
	}

	s.hookMu.RLock()
	fn := s.onRotate
	s.hookMu.RUnlock()
	if fn != nil {
		fn(item, ok)
	}
}
