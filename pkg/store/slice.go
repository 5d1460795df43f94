// Package store keeps the client-side state of every domain: entity
// lists, pagination, per-operation loading flags and the last error.
// Each async verb goes through Dispatch, which flips the loading flag,
// runs the call and hands the result to a reducer.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/chhengkhim/confessboard/pkg/api"
	"github.com/chhengkhim/confessboard/pkg/client"
	"github.com/chhengkhim/confessboard/pkg/logger"
)

// Op names one async verb
type Op string

const (
	OpFetch    Op = "fetch"
	OpCreate   Op = "create"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
	OpReply    Op = "reply"
	OpMarkRead Op = "mark_read"
)

// ErrSuperseded is returned by a fetch whose result was discarded because
// a newer fetch started after it.
var ErrSuperseded = errors.New("superseded by a newer request")

// Pagination mirrors the server's page envelope
type Pagination struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

func paginationFrom(m api.Meta) Pagination {
	return Pagination{Page: m.CurrentPage, PerPage: m.PerPage, Total: m.Total, LastPage: m.LastPage}
}

// ErrorState is the last failure recorded by a slice
type ErrorState struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors,omitempty"`
	Status  int                 `json:"status,omitempty"`
}

func errorState(err error) *ErrorState {
	var f *client.Failure
	if errors.As(err, &f) {
		return &ErrorState{Message: f.Message, Fields: f.Errors, Status: f.StatusCode}
	}
	return &ErrorState{Message: err.Error()}
}

// State is what a slice holds. Reducers mutate it under the slice lock.
type State[T api.Entity] struct {
	Items      []T           `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Loading    map[Op]bool   `json:"loading"`
	Error      *ErrorState   `json:"error,omitempty"`
	Selected   *T            `json:"selected,omitempty"`
	Query      api.ListQuery `json:"-"`
}

// IsLoading reports the flag of op
func (st State[T]) IsLoading(op Op) bool {
	return st.Loading[op]
}

// SetPage replaces the list with a fetched page
func (st *State[T]) SetPage(page *api.Page[T]) {
	st.Items = append([]T(nil), page.Items...)
	st.Pagination = paginationFrom(page.Meta)
}

// Prepend inserts item at the head and counts it
func (st *State[T]) Prepend(item T) {
	st.Items = append([]T{item}, st.Items...)
	st.Pagination.Total++
}

// Replace swaps the record with item's id in place. It reports whether
// the record was found.
func (st *State[T]) Replace(item T) bool {
	if st.Selected != nil && (*st.Selected).GetID() == item.GetID() {
		selected := item
		st.Selected = &selected
	}
	for i := range st.Items {
		if st.Items[i].GetID() == item.GetID() {
			st.Items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the record with id and uncounts it. The total never
// drops below zero.
func (st *State[T]) Remove(id int64) {
	for i := range st.Items {
		if st.Items[i].GetID() == id {
			st.Items = append(st.Items[:i:i], st.Items[i+1:]...)
			break
		}
	}
	if st.Pagination.Total > 0 {
		st.Pagination.Total--
	}
	if st.Selected != nil && (*st.Selected).GetID() == id {
		st.Selected = nil
	}
}

// Find returns the record with id
func (st State[T]) Find(id int64) (T, bool) {
	for _, item := range st.Items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (st State[T]) clone() State[T] {
	out := st
	out.Items = append([]T(nil), st.Items...)
	out.Loading = make(map[Op]bool, len(st.Loading))
	for op, v := range st.Loading {
		out.Loading[op] = v
	}
	if st.Selected != nil {
		selected := *st.Selected
		out.Selected = &selected
	}
	return out
}

// Fetcher loads one page
type Fetcher[T any] func(ctx context.Context, q api.ListQuery) (*api.Page[T], error)

// Resource is the CRUD surface a slice drives. *api.Resource satisfies it.
type Resource[T any] interface {
	List(ctx context.Context, q api.ListQuery) (*api.Page[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, body interface{}) (*T, error)
	Update(ctx context.Context, id int64, body interface{}) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Slice is one state partition over an entity list.
type Slice[T api.Entity] struct {
	name  string
	res   Resource[T]
	fetch Fetcher[T]
	base  context.Context

	mu      sync.Mutex
	state   State[T]
	pending map[Op]int

	gen    uint64
	cancel context.CancelFunc

	debounce  *Debouncer
	listeners map[int]func(State[T])
	nextID    int
}

// SliceOptions configures a slice
type SliceOptions[T any] struct {
	// Fetch overrides res.List
	Fetch    Fetcher[T]
	PerPage  int
	Debounce *Debouncer
	// Context bounds debounced fetches. Defaults to Background.
	Context context.Context
}

// NewSlice builds a slice over res. res may be nil when opts.Fetch is set
// and the slice is read-only.
func NewSlice[T api.Entity](name string, res Resource[T], opts SliceOptions[T]) *Slice[T] {
	s := &Slice[T]{
		name:      name,
		res:       res,
		fetch:     opts.Fetch,
		base:      opts.Context,
		pending:   map[Op]int{},
		debounce:  opts.Debounce,
		listeners: map[int]func(State[T]){},
	}
	if s.fetch == nil && res != nil {
		s.fetch = res.List
	}
	if s.base == nil {
		s.base = context.Background()
	}
	if s.debounce == nil {
		s.debounce = NewDebouncer(DefaultDebounce)
	}
	s.state = State[T]{
		Items:   []T{},
		Loading: map[Op]bool{},
		Query:   api.ListQuery{Page: 1, PerPage: opts.PerPage},
	}
	return s
}

// Name returns the slice name
func (s *Slice[T]) Name() string {
	return s.name
}

// Snapshot returns a copy of the current state
func (s *Slice[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every change
func (s *Slice[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners
func (s *Slice[T]) update(fn func(st *State[T])) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	listeners := make([]func(State[T]), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Slice[T]) begin(st *State[T], op Op) {
	s.pending[op]++
	st.Loading[op] = true
	st.Error = nil
}

func (s *Slice[T]) settle(st *State[T], op Op) {
	if s.pending[op] > 0 {
		s.pending[op]--
	}
	st.Loading[op] = s.pending[op] > 0
}

// Dispatch runs call as op: the loading flag is set while it runs, the
// result goes to reduce on success and the error is recorded on failure.
// A cancelled context records nothing.
func Dispatch[T api.Entity, R any](ctx context.Context, s *Slice[T], op Op, call func(context.Context) (R, error), reduce func(st *State[T], result R)) (R, error) {
	s.update(func(st *State[T]) { s.begin(st, op) })

	result, err := call(ctx)

	s.update(func(st *State[T]) {
		s.settle(st, op)
		switch {
		case err == nil:
			if reduce != nil {
				reduce(st, result)
			}
		case errors.Is(err, context.Canceled):
		default:
			logger.Debug("Store operation failed", "slice", s.name, "op", op, "error", err)
			st.Error = errorState(err)
		}
	})
	return result, err
}

// Fetch loads one page for q. Starting a fetch cancels the one before
// it; a superseded fetch returns ErrSuperseded and leaves the state alone.
func (s *Slice[T]) Fetch(ctx context.Context, q api.ListQuery) error {
	if s.fetch == nil {
		return errors.New(s.name + ": no fetcher")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var gen uint64
	s.update(func(st *State[T]) {
		if s.cancel != nil {
			s.cancel()
		}
		s.gen++
		gen = s.gen
		s.cancel = cancel
		st.Query = q
		s.begin(st, OpFetch)
	})

	page, err := s.fetch(ctx, q)

	superseded := false
	s.update(func(st *State[T]) {
		s.settle(st, OpFetch)
		if gen != s.gen {
			superseded = true
			return
		}
		s.cancel = nil
		switch {
		case err == nil:
			st.SetPage(page)
		case errors.Is(err, context.Canceled):
		default:
			st.Error = errorState(err)
		}
	})

	if superseded {
		logger.Debug("Discarding superseded fetch", "slice", s.name, "generation", gen)
		return ErrSuperseded
	}
	return err
}

// Refresh refetches the current query
func (s *Slice[T]) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, s.Snapshot().Query)
}

// SetFilter schedules a fetch for q after the debounce delay. Calls
// inside the delay replace the pending one.
func (s *Slice[T]) SetFilter(q api.ListQuery) {
	s.debounce.Call(func() {
		if err := s.Fetch(s.base, q); err != nil && !errors.Is(err, ErrSuperseded) {
			logger.Debug("Debounced fetch failed", "slice", s.name, "error", err)
		}
	})
}

// FlushFilter fetches a pending SetFilter query now and waits for a
// debounced fetch already in flight.
func (s *Slice[T]) FlushFilter() {
	s.debounce.Flush()
}

// Select loads one record into Selected
func (s *Slice[T]) Select(ctx context.Context, id int64) (*T, error) {
	return Dispatch(ctx, s, OpFetch, func(ctx context.Context) (*T, error) {
		return s.res.Get(ctx, id)
	}, func(st *State[T], item *T) {
		st.Selected = item
		st.Replace(*item)
	})
}

// Create stores a new record and prepends it
func (s *Slice[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	return Dispatch(ctx, s, OpCreate, func(ctx context.Context) (*T, error) {
		return s.res.Create(ctx, body)
	}, func(st *State[T], item *T) {
		st.Prepend(*item)
	})
}

// Update stores the changes and splices the result in place
func (s *Slice[T]) Update(ctx context.Context, id int64, body interface{}) (*T, error) {
	return Dispatch(ctx, s, OpUpdate, func(ctx context.Context) (*T, error) {
		return s.res.Update(ctx, id, body)
	}, func(st *State[T], item *T) {
		st.Replace(*item)
	})
}

// Delete removes the record on the server and from the list
func (s *Slice[T]) Delete(ctx context.Context, id int64) error {
	_, err := Dispatch(ctx, s, OpDelete, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.res.Delete(ctx, id)
	}, func(st *State[T], _ struct{}) {
		st.Remove(id)
	})
	return err
}

// Patch edits the cached record with id without a request
func (s *Slice[T]) Patch(id int64, fn func(item *T)) {
	s.update(func(st *State[T]) {
		for i := range st.Items {
			if st.Items[i].GetID() == id {
				fn(&st.Items[i])
			}
		}
		if st.Selected != nil && (*st.Selected).GetID() == id {
			fn(st.Selected)
		}
	})
}

// ClearError drops the recorded error
func (s *Slice[T]) ClearError() {
	s.update(func(st *State[T]) { st.Error = nil })
}

// Reset empties the slice and cancels any fetch in flight
func (s *Slice[T]) Reset() {
	s.debounce.Stop()
	s.update(func(st *State[T]) {
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.gen++
		perPage := st.Query.PerPage
		*st = State[T]{
			Items:   []T{},
			Loading: map[Op]bool{},
			Query:   api.ListQuery{Page: 1, PerPage: perPage},
		}
		s.pending = map[Op]int{}
	})
}
