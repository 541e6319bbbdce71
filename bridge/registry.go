package bridge

import "fmt"

// Handle is an opaque integer standing for a builder or game on the far side
// of a boundary that cannot hold Go pointers. Zero is never issued.
type Handle uint64

// Registry owns the handle table. Like everything in this package it does
// not lock.
type Registry struct {
	next     Handle
	builders map[Handle]*Builder
	games    map[Handle]*Game
}

func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[Handle]*Builder),
		games:    make(map[Handle]*Game),
	}
}

func (r *Registry) NewBuilder() Handle {
	r.next++
	r.builders[r.next] = NewBuilder()
	return r.next
}

// Builder resolves h. An unknown handle is a contract violation and panics.
func (r *Registry) Builder(h Handle) *Builder {
	b, ok := r.builders[h]
	if !ok {
		panic(fmt.Sprintf("bridge: invalid builder handle %d", h))
	}
	return b
}

func (r *Registry) Game(h Handle) *Game {
	g, ok := r.games[h]
	if !ok {
		panic(fmt.Sprintf("bridge: invalid game handle %d", h))
	}
	return g
}

// Finalize consumes the builder on success and returns the new game handle;
// on failure it returns h itself, still valid.
func (r *Registry) Finalize(h Handle, opts FinalizeOptions) (Handle, FinalizeTag) {
	res := r.Builder(h).FinalizeWith(opts)
	g, ok := res.Game()
	if !ok {
		return h, FinalizeBuilder
	}
	delete(r.builders, h)
	r.next++
	r.games[r.next] = g
	return r.next, FinalizeGame
}

func (r *Registry) ReleaseBuilder(h Handle) {
	r.Builder(h)
	delete(r.builders, h)
}

func (r *Registry) ReleaseGame(h Handle) {
	r.Game(h)
	delete(r.games, h)
}
