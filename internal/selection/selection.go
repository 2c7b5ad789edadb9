// Package selection tracks the one movie open for detail viewing.
package selection

import "sync"

// State holds at most one selected movie id.
type State struct {
	mu       sync.Mutex
	id       string
	onChange func(id string)
}

// New returns an empty selection.
func New() *State {
	return &State{}
}

// OnChange registers fn to be called with the new id ("" when cleared)
// after every transition that changes the selection.
func (s *State) OnChange(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Select opens id, replacing any previous selection. Selecting the id that is
// already open closes it. It returns the selection after the call.
func (s *State) Select(id string) string {
	s.mu.Lock()
	if id == s.id {
		id = ""
	}
	return s.setLocked(id)
}

// Clear closes the selection.
func (s *State) Clear() {
	s.mu.Lock()
	s.setLocked("")
}

// Current returns the selected id and whether one is selected.
func (s *State) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.id != ""
}

// setLocked stores id, releases the lock and fires the change hook if the value changed.
func (s *State) setLocked(id string) string {
	changed := id != s.id
	s.id = id
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn(id)
	}
	return id
}
