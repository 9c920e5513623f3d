package store

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"cotiza/internal/ports"
	"cotiza/internal/types"
)

// Persistence key layout: two independent keys hold the serialized
// collections, a third holds snapshot metadata. Every mutation overwrites
// the full collection; there are no incremental writes.
const (
	keyClients    = "clients"
	keyQuotations = "quotations"
	keyMeta       = "meta"
)

type meta struct {
	LastSaved time.Time `json:"last_saved"`
}

// Store owns the in-memory client and quotation collections and delegates
// to a ports.KVStore after every mutation. Writes are fire-and-forget: a
// failed persist is logged and the in-memory mutation stands, so durable
// state can lag on storage failure. A single Store must be the only writer
// of its keys; there is no cross-process coordination.
type Store struct {
	mu      sync.Mutex
	kv      ports.KVStore
	profile types.CompanyProfile

	clients    []types.Client
	quotations []types.Quotation
	lastSaved  time.Time

	// test seams, same pattern as the rest of the codebase
	now   func() time.Time
	newID func() string
}

// New builds a Store on the given backend. Call Initialize before use.
func New(kv ports.KVStore, profile types.CompanyProfile) *Store {
	profile.Normalize()
	return &Store{
		kv:      kv,
		profile: profile,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Profile returns the company profile the store was built with.
func (s *Store) Profile() types.CompanyProfile {
	return s.profile
}

// Initialize loads both collections from the backend and, when both come
// back empty, loads the demo fixture set. Safe to call repeatedly: a
// non-empty store is left exactly as it is.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = loadCollection[types.Client](ctx, s.kv, keyClients)
	s.quotations = loadCollection[types.Quotation](ctx, s.kv, keyQuotations)
	s.lastSaved = loadMeta(ctx, s.kv).LastSaved

	if len(s.clients) == 0 && len(s.quotations) == 0 {
		s.seedLocked()
		s.persistLocked(ctx)
	}
	return nil
}

// LastSaved is the time of the last successful snapshot write, zero when
// nothing has been persisted yet.
func (s *Store) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// ClearAll wipes both collections and deletes the backend keys.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = nil
	s.quotations = nil
	s.lastSaved = time.Time{}
	for _, key := range []string{keyClients, keyQuotations, keyMeta} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return types.Err(types.ErrStoreAccess, err, "clear %q", key)
		}
	}
	return nil
}

// loadCollection reads and decodes one collection key. A missing key or a
// payload that fails to decode yields an empty collection, never an error.
func loadCollection[T any](ctx context.Context, kv ports.KVStore, key string) []T {
	payload, err := kv.Get(ctx, key)
	if err != nil {
		if !types.IsNotFound(err) {
			log.WithError(err).Warnf("failed to read %q, starting empty", key)
		}
		return nil
	}
	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		log.WithError(err).Warnf("corrupt payload at %q, starting empty", key)
		return nil
	}
	return out
}

func loadMeta(ctx context.Context, kv ports.KVStore) meta {
	payload, err := kv.Get(ctx, keyMeta)
	if err != nil {
		return meta{}
	}
	var m meta
	if err := json.Unmarshal(payload, &m); err != nil {
		log.WithError(err).Warnf("corrupt payload at %q, ignoring", keyMeta)
		return meta{}
	}
	return m
}

// persistLocked snapshots both collections to the backend. Callers must
// hold s.mu. Failures are logged and swallowed; the in-memory state is not
// rolled back.
func (s *Store) persistLocked(ctx context.Context) {
	now := s.now()
	ok := true
	ok = s.putJSON(ctx, keyClients, s.clients) && ok
	ok = s.putJSON(ctx, keyQuotations, s.quotations) && ok
	if ok {
		if s.putJSON(ctx, keyMeta, meta{LastSaved: now}) {
			s.lastSaved = now
		}
	}
}

func (s *Store) putJSON(ctx context.Context, key string, v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Errorf("failed to serialize %q", key)
		return false
	}
	if err := s.kv.Put(ctx, key, payload); err != nil {
		log.WithError(err).Errorf("failed to persist %q", key)
		return false
	}
	return true
}
