package eval

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/theory/jsonpath"
)

// DefaultSerialStart is the value returned by the first serial() call.
const DefaultSerialStart int64 = 1

// State is the mutable interpreter state threaded through evaluation. It
// belongs to a single interpreter run and is not safe for concurrent use.
type State struct {
	counter  int64
	now      func() time.Time
	newUUID  func() string
	bindings map[string]any
	paths    map[string]*jsonpath.Path
}

// Option configures a State.
type Option func(*State)

// WithSerialStart sets the value returned by the first serial() call.
func WithSerialStart(start int64) Option {
	return func(s *State) {
		s.counter = start - 1
	}
}

// WithClock sets the time source used by now().
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithUUIDGenerator sets the generator used by uuid().
func WithUUIDGenerator(fn func() string) Option {
	return func(s *State) {
		if fn != nil {
			s.newUUID = fn
		}
	}
}

// NewState returns a State whose first serial() call yields
// DefaultSerialStart unless overridden.
func NewState(opts ...Option) *State {
	s := &State{
		counter:  DefaultSerialStart - 1,
		now:      time.Now,
		newUUID:  uuid.NewString,
		bindings: make(map[string]any),
		paths:    make(map[string]*jsonpath.Path),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextSerial increments the counter and returns the new value.
func (s *State) NextSerial() int64 {
	s.counter++
	return s.counter
}

// Bind sets a let binding for the current record.
func (s *State) Bind(name string, value any) {
	s.bindings[name] = value
}

// ClearBindings drops every let binding. Called between records.
func (s *State) ClearBindings() {
	clear(s.bindings)
}

func (s *State) lookup(name string) (any, bool) {
	value, ok := s.bindings[name]
	return value, ok
}

// compiledPath returns the cached jsonpath query selecting path by name at
// every level.
func (s *State) compiledPath(path []string) (*jsonpath.Path, error) {
	key := strings.Join(path, "\x00")
	if p, ok := s.paths[key]; ok {
		return p, nil
	}

	var b strings.Builder
	b.WriteByte('$')
	for _, segment := range path {
		b.WriteByte('[')
		b.WriteString(strconv.Quote(segment))
		b.WriteByte(']')
	}

	p, err := jsonpath.Parse(b.String())
	if err != nil {
		return nil, err
	}
	s.paths[key] = p
	return p, nil
}
