package domain

import (
	"time"
)

// Session is the per-user, per-engine context: identity, payload fields and the
// current-state pointer. A Session is owned by exactly one caller at a time.
type Session struct {
	id       string
	engine   string
	username string
	current  StateKind
	fields   map[string]any
	defaults map[string]any
	updated  time.Time
}

// NewSession creates an idle session. defaults holds the engine-declared value
// returned by Get for unset fields.
func NewSession(id, engine, username string, defaults map[string]any) *Session {
	if defaults == nil {
		defaults = map[string]any{}
	}
	return &Session{
		id:       id,
		engine:   engine,
		username: username,
		fields:   make(map[string]any),
		defaults: defaults,
		updated:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Engine returns the name of the owning domain engine.
func (s *Session) Engine() string { return s.engine }

// Username returns the immutable session identity.
func (s *Session) Username() string { return s.username }

// CurrentState returns the active state, or Idle.
func (s *Session) CurrentState() StateKind { return s.current }

// SetState moves the state pointer.
func (s *Session) SetState(kind StateKind) {
	s.current = kind
	s.updated = time.Now()
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time { return s.updated }

// Get returns the field value, falling back to the engine default.
func (s *Session) Get(field string) any {
	if v, ok := s.fields[field]; ok {
		return v
	}
	return s.defaults[field]
}

// Has reports whether the field was explicitly set.
func (s *Session) Has(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Set stores a field value; visible immediately to the next Handle.
func (s *Session) Set(field string, value any) {
	s.fields[field] = value
	s.updated = time.Now()
}

// String returns a string field or "".
func (s *Session) String(field string) string {
	v, _ := s.Get(field).(string)
	return v
}

// Bool returns a boolean field or false.
func (s *Session) Bool(field string) bool {
	v, _ := s.Get(field).(bool)
	return v
}

// Int returns an integer field or 0.
func (s *Session) Int(field string) int {
	v, _ := s.Get(field).(int)
	return v
}

// Strings returns a copy of a string list field.
func (s *Session) Strings(field string) []string {
	v, _ := s.Get(field).([]string)
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// Fields returns every field, defaults included.
func (s *Session) Fields() map[string]any {
	out := make(map[string]any, len(s.defaults)+len(s.fields))
	for k, v := range s.defaults {
		out[k] = v
	}
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// Defaults returns the engine-declared defaults.
func (s *Session) Defaults() map[string]any {
	return s.defaults
}

// Snapshot is the serializable form of a Session.
type Snapshot struct {
	ID        string         `json:"id"`
	Engine    string         `json:"engine"`
	Username  string         `json:"username"`
	State     StateKind      `json:"state"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Snapshot captures the explicitly set fields and the state pointer.
func (s *Session) Snapshot() Snapshot {
	fields := make(map[string]any, len(s.fields))
	for k, v := range s.fields {
		fields[k] = v
	}
	return Snapshot{
		ID:        s.id,
		Engine:    s.engine,
		Username:  s.username,
		State:     s.current,
		Fields:    fields,
		UpdatedAt: s.updated,
	}
}

// FromSnapshot rebuilds a session. fields must already be decoded into their typed form.
func FromSnapshot(snap Snapshot, defaults map[string]any, fields map[string]any) *Session {
	s := NewSession(snap.ID, snap.Engine, snap.Username, defaults)
	for k, v := range fields {
		s.fields[k] = v
	}
	s.current = snap.State
	s.updated = snap.UpdatedAt
	return s
}

// Value returns a field as T, or the zero T when the field holds another type.
func Value[T any](s *Session, field string) T {
	v, _ := s.Get(field).(T)
	return v
}
