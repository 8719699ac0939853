package runtime

import (
	"sync"

	"github.com/sureshpilli97/ChatCresr-Server/contract"
)

var _ contract.IRegistry = (*Registry)(nil)

// Registry maps each online identity to its single live connection.
// A reverse index resolves the identity of a closing connection.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]contract.Connection // identity -> connection
	identities  map[string]string              // connection id -> identity
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]contract.Connection),
		identities:  make(map[string]string),
	}
}

// Set binds identity to conn, last writer wins.
// The connection previously bound to identity is returned, it is not closed.
func (r *Registry) Set(identity string, conn contract.Connection) contract.Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A connection re-announcing under another identity drops its old binding
	if previous, ok := r.identities[conn.ID()]; ok && previous != identity {
		if current, ok := r.connections[previous]; ok && current.ID() == conn.ID() {
			delete(r.connections, previous)
		}
	}

	evicted, ok := r.connections[identity]
	if ok && evicted.ID() != conn.ID() {
		delete(r.identities, evicted.ID())
	} else {
		evicted = nil
	}
	r.connections[identity] = conn
	r.identities[conn.ID()] = identity
	return evicted
}

// Remove unbinds conn. It reports false when conn is unknown or was evicted
// by a newer connection, in which case the newer binding is left intact.
func (r *Registry) Remove(conn contract.Connection) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[conn.ID()]
	if !ok {
		return "", false
	}
	delete(r.identities, conn.ID())
	current, ok := r.connections[identity]
	if !ok || current.ID() != conn.ID() {
		return "", false
	}
	delete(r.connections, identity)
	return identity, true
}

func (r *Registry) Get(identity string) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.connections[identity]
	return conn, ok
}

func (r *Registry) IsOnline(identity string) bool {
	_, ok := r.Get(identity)
	return ok
}

// Connections returns a snapshot of every live connection.
func (r *Registry) Connections() []contract.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]contract.Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		res = append(res, conn)
	}
	return res
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
