package syncer

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

// Resolution states of a share lookup. The machine starts loading and moves
// exactly once to found or not-found; terminal states never transition back.
type ResolveState int

const (
	StateLoading ResolveState = iota
	StateFound
	StateNotFound
)

func (s ResolveState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ShareResolver resolves one public share code. A missing code, an
// unpublished app, and a fetch failure all end in StateNotFound; the caller
// cannot tell them apart, matching the share endpoint's own behavior.
type ShareResolver struct {
	api API

	mu    sync.Mutex
	state ResolveState
	app   *types.SharedApp
}

// NewShareResolver returns a resolver in StateLoading.
func NewShareResolver(api API) *ShareResolver {
	return &ShareResolver{api: api, state: StateLoading}
}

// State returns the current resolution state.
func (r *ShareResolver) State() ResolveState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// App returns the resolved app, or nil unless the state is StateFound.
func (r *ShareResolver) App() *types.SharedApp {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.app
}

// Resolve fetches the share code and settles the machine. Resolving an
// already-settled resolver returns the terminal state unchanged.
func (r *ShareResolver) Resolve(ctx context.Context, code string) ResolveState {
	r.mu.Lock()
	if r.state != StateLoading {
		state := r.state
		r.mu.Unlock()
		return state
	}
	r.mu.Unlock()

	shared, err := r.api.GetShared(ctx, code)

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent Resolve may have settled the machine while the fetch was
	// in flight; the first result wins.
	if r.state != StateLoading {
		return r.state
	}
	if err != nil || shared == nil || !shared.IsPublished {
		r.state = StateNotFound
		return r.state
	}
	r.app = shared
	r.state = StateFound
	return r.state
}
