// Package threadreg tracks which threads of each traced process have been
// accepted by an enumeration pass.
package threadreg

import (
	"sort"
	"sync"
)

// Registry maps a thread-group id to the set of thread ids accepted for it.
// It provides command-query separation and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	threads  map[int]map[int]struct{} // TGID -> accepted TIDs
	scanErrs map[int]error            // TGID -> last enumeration failure
}

// NewRegistry creates an empty thread registry.
func NewRegistry() *Registry {
	return &Registry{
		threads:  make(map[int]map[int]struct{}),
		scanErrs: make(map[int]error),
	}
}

// Record marks tid as accepted for tgid (command).
func (r *Registry) Record(tgid, tid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.threads[tgid] == nil {
		r.threads[tgid] = make(map[int]struct{})
	}
	r.threads[tgid][tid] = struct{}{}
}

// Recorded reports whether tid has been accepted for tgid (query).
func (r *Registry) Recorded(tgid, tid int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.threads[tgid][tid]
	return ok
}

// TIDs returns the accepted thread ids of tgid in ascending order (query).
// Returns nil if nothing has been recorded for tgid.
func (r *Registry) TIDs(tgid int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.threads[tgid]) == 0 {
		return nil
	}
	tids := make([]int, 0, len(r.threads[tgid]))
	for tid := range r.threads[tgid] {
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	return tids
}

// TGIDs returns every thread-group id with recorded threads or a stored
// error, in ascending order (query).
func (r *Registry) TGIDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[int]struct{}, len(r.threads)+len(r.scanErrs))
	for tgid := range r.threads {
		set[tgid] = struct{}{}
	}
	for tgid := range r.scanErrs {
		set[tgid] = struct{}{}
	}
	tgids := make([]int, 0, len(set))
	for tgid := range set {
		tgids = append(tgids, tgid)
	}
	sort.Ints(tgids)
	return tgids
}

// SetError stores the enumeration failure for tgid (command). A previous
// error is replaced.
func (r *Registry) SetError(tgid int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanErrs[tgid] = err
}

// Err returns the stored enumeration failure for tgid (query). Returns nil
// if the last scan of tgid completed.
func (r *Registry) Err(tgid int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanErrs[tgid]
}

// Forget drops all state for tgid (command). Called when the process exits
// or detaches.
func (r *Registry) Forget(tgid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threads, tgid)
	delete(r.scanErrs, tgid)
}
