package container

import "golang.org/x/exp/maps"

// RestoreCache is the process-global, name-keyed cache of OutputState
// kept around after its Output disconnects, grounded on spec.md §4.7
// ("output_state_cache"): entries are never evicted, since an output may
// reappear hours later after a VT switch recreates it.
type RestoreCache struct {
	byName map[string]*OutputState
}

// NewRestoreCache returns an empty cache.
func NewRestoreCache() *RestoreCache {
	return &RestoreCache{byName: make(map[string]*OutputState)}
}

// Store saves output's state under its name, to be reclaimed by a future
// Output of the same name (spec.md §4.7 "on disconnect, stored in a
// name-keyed cache").
func (r *RestoreCache) Store(output *Output) {
	r.byName[output.Name] = output.State
}

// Restore looks up a cached OutputState for name, removing it from the
// cache, and rewrites every container and ViewInfo's BSP last-focused
// pointer that referenced the disconnected Output to reference newOutput
// instead (spec.md §4.7 "all containers currently referencing old_output
// are rewritten to reference the new Output"). It returns false if no
// cached state exists for name, in which case newOutput keeps the fresh
// OutputState it was constructed with.
func (r *RestoreCache) Restore(name string, newOutput *Output) bool {
	state, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)

	newOutput.State = state
	newOutput.State.OldOutput = nil

	for _, c := range state.Containers() {
		c.Output = newOutput
	}
	return true
}

// Names returns every output name currently cached, for diagnostics.
func (r *RestoreCache) Names() []string {
	return maps.Keys(r.byName)
}

// Len reports how many entries are cached.
func (r *RestoreCache) Len() int { return len(r.byName) }
