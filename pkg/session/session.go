package session

// Session is one client's session: an opaque token plus a values map that
// is JSON-serialized at rest. The accessor methods satisfy the view
// layer's SessionAccessor interface, which makes every session value
// ambiently readable from rendered views.
//
// A Session is owned by a single request and is not safe for concurrent
// use; mutations are persisted only when the host calls Store.Save.
type Session struct {
	Token  string
	values map[string]any
}

// NewDetached creates a tokenless session that no store persists. Hosts
// use it as a fallback when session storage is unavailable, so requests
// still get a working (if amnesiac) session.
func NewDetached() *Session {
	return &Session{values: make(map[string]any)}
}

// Get returns the value stored under name, or nil.
func (s *Session) Get(name string) any {
	return s.values[name]
}

// Has reports whether a value is stored under name.
func (s *Session) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Set stores value under name. The change is in-memory until Save.
func (s *Session) Set(name string, value any) {
	s.values[name] = value
}

// Remove drops the value stored under name.
func (s *Session) Remove(name string) {
	delete(s.values, name)
}

// GetString returns the value under name if it is a string, or "".
// JSON round-trips turn every stored string into exactly this case.
func (s *Session) GetString(name string) string {
	v, _ := s.values[name].(string)
	return v
}
