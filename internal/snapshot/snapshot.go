// Package snapshot loads the datasets a render needs and holds the current
// immutable state per petition.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
)

// State is everything one render pass reads. It is never mutated after
// construction; a refresh builds a new State.
type State struct {
	PetitionID string
	Geometry   *hexjson.Geometry
	Petition   *petition.Petition
	// Listing is nil when the listing feed is optional and failed.
	Listing  *petition.Listing
	LoadedAt time.Time
}

// Rank runs the ranking pipeline over this state.
func (s *State) Rank(opts ranking.Options) *ranking.Result {
	return ranking.Rank(s.Geometry, s.Petition.Records(), opts)
}

// Lookup answers a hover query for code.
func (s *State) Lookup(code string) (ranking.Detail, error) {
	return ranking.Lookup(s.Geometry, ranking.NewIndex(s.Petition.Records()), code)
}

// Source supplies the three datasets.
type Source interface {
	Geometry(ctx context.Context) (*hexjson.Geometry, error)
	Petition(ctx context.Context, id string) (*petition.Petition, error)
	Listing(ctx context.Context) (*petition.Listing, error)
}

// Loader fetches all datasets concurrently and only yields a State once
// every required fetch has succeeded.
type Loader struct {
	src             Source
	listingOptional bool
	now             func() time.Time
}

// NewLoader creates a Loader. With listingOptional, a failed listing fetch
// is logged and the State carries a nil Listing.
func NewLoader(src Source, listingOptional bool) *Loader {
	return &Loader{src: src, listingOptional: listingOptional, now: time.Now}
}

// Load fetches geometry, petition and listing in parallel. The first
// failure cancels the others and is returned; no partial State is built.
func (l *Loader) Load(ctx context.Context, id string) (*State, error) {
	var (
		geo     *hexjson.Geometry
		pet     *petition.Petition
		listing *petition.Listing
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		geo, err = l.src.Geometry(gctx)
		if err != nil {
			return fmt.Errorf("loading geometry: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pet, err = l.src.Petition(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		listing, err = l.src.Listing(gctx)
		if err != nil && l.listingOptional {
			slog.Warn("petition listing unavailable", "error", err)
			listing = nil
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &State{
		PetitionID: id,
		Geometry:   geo,
		Petition:   pet,
		Listing:    listing,
		LoadedAt:   l.now(),
	}
	if _, unmatched := ranking.Join(geo, pet.Records()); len(unmatched) > 0 {
		slog.Warn("signature records without a constituency", "petition", id, "codes", unmatched)
	}
	return st, nil
}

// loadTimeout bounds one shared load, independent of any single caller.
const loadTimeout = 60 * time.Second

// Store holds the current State per petition. States are swapped whole.
type Store struct {
	mu     sync.Mutex
	states map[string]*atomic.Pointer[State]
	loader *Loader
	group  singleflight.Group
	onLoad []func(*State)
}

// NewStore creates a Store that fills misses with loader.
func NewStore(loader *Loader) *Store {
	return &Store{states: make(map[string]*atomic.Pointer[State]), loader: loader}
}

// Get returns the current State for id, if loaded.
func (s *Store) Get(id string) (*State, bool) {
	s.mu.Lock()
	p, ok := s.states[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	st := p.Load()
	return st, st != nil
}

// Replace installs st as the current State for its petition. Slots are only
// created here, so ids that never load leave nothing behind.
func (s *Store) Replace(st *State) {
	s.mu.Lock()
	p, ok := s.states[st.PetitionID]
	if !ok {
		p = new(atomic.Pointer[State])
		s.states[st.PetitionID] = p
	}
	s.mu.Unlock()
	p.Store(st)
}

// Load returns the current State for id, loading it on first use.
// Concurrent misses for the same id share one load.
func (s *Store) Load(ctx context.Context, id string) (*State, error) {
	if st, ok := s.Get(id); ok {
		return st, nil
	}
	return s.Refresh(ctx, id)
}

// Refresh loads id again and replaces the current State on success. On
// failure the previous State is kept.
//
// The load is shared by concurrent callers, so it runs detached from ctx
// and bounded by loadTimeout; a caller whose ctx ends stops waiting early.
func (s *Store) Refresh(ctx context.Context, id string) (*State, error) {
	ch := s.group.DoChan(id, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		st, err := s.loader.Load(loadCtx, id)
		if err != nil {
			return nil, err
		}
		s.Replace(st)
		for _, fn := range s.hooks() {
			fn(st)
		}
		return st, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*State), nil
	}
}

// OnLoad registers fn to run after every successful load or refresh.
func (s *Store) OnLoad(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad = append(s.onLoad, fn)
}

func (s *Store) hooks() []func(*State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.onLoad)
}

// IDs lists the petitions with a loaded State.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.states))
	for id, p := range s.states {
		if p.Load() != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
