// Package persistence mirrors the collection and theme to a key-value store.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dastanaron/echohive/internal/logger"
	"github.com/dastanaron/echohive/internal/metrics"
	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/repository"
	"github.com/dastanaron/echohive/internal/store"
)

// Fallback reasons reported by Load
const (
	ReasonAbsent  = "absent"
	ReasonRead    = "read_error"
	ReasonCorrupt = "corrupt"
)

var errNotArray = errors.New("snapshot is not a JSON array")

// Snapshot is what Load hands back at startup
type Snapshot struct {
	Items    []models.ContentItem
	NextID   int64
	FromSeed bool
	// Reason says why the seed was used; empty when loaded from the store.
	Reason string
}

// Collection rebuilds the store collection from the snapshot
func (s Snapshot) Collection() store.Collection {
	return store.Restore(s.Items, s.NextID)
}

// Bridge reads through and writes through to a KeyValue store
type Bridge struct {
	kv      repository.KeyValue
	profile models.Profile
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewBridge creates a bridge for the profile's keys
func NewBridge(kv repository.KeyValue, profile models.Profile, log logger.Logger, m *metrics.Metrics) *Bridge {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bridge{
		kv:      kv,
		profile: profile,
		log:     log.With(logger.String("key", profile.StorageKey)),
		metrics: m,
	}
}

func (b *Bridge) seqKey() string {
	return b.profile.StorageKey + ".seq"
}

// Load returns the persisted collection, or the profile seed when the key
// is absent, unreadable or corrupt. It never fails.
func (b *Bridge) Load(ctx context.Context) Snapshot {
	raw, ok, err := b.kv.Get(ctx, b.profile.StorageKey)
	if err != nil {
		b.log.Warn("Read persisted collection failed, using seed", logger.Error(err))
		return b.seed(ReasonRead)
	}
	if !ok {
		return b.seed(ReasonAbsent)
	}

	items, err := Decode(raw)
	if err != nil {
		b.log.Warn("Persisted collection is corrupt, using seed", logger.Error(err))
		return b.seed(ReasonCorrupt)
	}

	return Snapshot{Items: items, NextID: b.loadSeq(ctx)}
}

func (b *Bridge) seed(reason string) Snapshot {
	if b.metrics != nil {
		b.metrics.LoadFallbacks.WithLabelValues(reason).Inc()
	}
	return Snapshot{Items: b.profile.Seed(), FromSeed: true, Reason: reason}
}

func (b *Bridge) loadSeq(ctx context.Context) int64 {
	raw, ok, err := b.kv.Get(ctx, b.seqKey())
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		b.log.Debug("Ignoring unparseable id sequence", logger.String("value", raw))
		return 0
	}
	return n
}

// Save writes the whole collection and its id high-water mark
func (b *Bridge) Save(ctx context.Context, c store.Collection) error {
	data, err := Encode(c.Items())
	if err != nil {
		return b.fail("encode", err)
	}
	if err := b.set(ctx, b.profile.StorageKey, data); err != nil {
		return err
	}
	return b.set(ctx, b.seqKey(), strconv.FormatInt(c.NextID(), 10))
}

// LoadTheme returns the persisted theme, light when absent or invalid
func (b *Bridge) LoadTheme(ctx context.Context) models.Theme {
	raw, ok, err := b.kv.Get(ctx, b.profile.ThemeKey)
	if err != nil {
		b.log.Warn("Read persisted theme failed", logger.Error(err))
		return models.ThemeLight
	}
	if !ok {
		return models.ThemeLight
	}
	theme, valid := models.ParseTheme(strings.TrimSpace(raw))
	if !valid {
		b.log.Debug("Ignoring unknown theme", logger.String("value", raw))
	}
	return theme
}

// SaveTheme writes the theme flag
func (b *Bridge) SaveTheme(ctx context.Context, t models.Theme) error {
	return b.set(ctx, b.profile.ThemeKey, string(t))
}

// Reset removes the persisted collection so the next Load uses the seed
func (b *Bridge) Reset(ctx context.Context) error {
	for _, key := range []string{b.profile.StorageKey, b.seqKey()} {
		if err := b.kv.Remove(ctx, key); err != nil {
			return b.fail("remove", err)
		}
	}
	return nil
}

func (b *Bridge) set(ctx context.Context, key, value string) error {
	if err := b.kv.Set(ctx, key, value); err != nil {
		return b.fail("set", err)
	}
	if b.metrics != nil {
		b.metrics.PersistWrites.WithLabelValues(key).Inc()
	}
	return nil
}

func (b *Bridge) fail(op string, err error) error {
	if b.metrics != nil {
		b.metrics.PersistFailures.WithLabelValues(op).Inc()
	}
	return fmt.Errorf("persist %s: %w", op, err)
}

// Encode serializes items as a JSON array of objects
func Encode(items []models.ContentItem) (string, error) {
	if items == nil {
		items = []models.ContentItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a JSON array of items. Duplicate ids and negative counters
// are rejected as corrupt.
func Decode(raw string) ([]models.ContentItem, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '[' {
		return nil, errNotArray
	}

	var items []models.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
		if it.Likes < 0 || it.Shares < 0 {
			return nil, fmt.Errorf("negative counter on id %d", it.ID)
		}
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, nil
}
