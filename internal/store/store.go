// Package store is the only mutation path for one session's lists and todos.
// It never validates names; callers do that first.
package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ChristopherBrum/todos-app/internal/domain"
)

// ListsKey is the session key holding the list collection.
const ListsKey = "lists"

var ErrTodoNotFound = errors.New("todo not found")

// Values is the per-session key/value store the Store reads from and writes back to.
type Values interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

// Store owns the lists of one session for the duration of a request.
type Store struct {
	vals  Values
	lists []*domain.List
}

// New loads the list collection from vals, initializing it to an empty
// sequence when the key is absent.
func New(vals Values) (*Store, error) {
	var lists []*domain.List
	ok, err := vals.Get(ListsKey, &lists)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	if !ok || lists == nil {
		lists = []*domain.List{}
		if err := vals.Set(ListsKey, lists); err != nil {
			return nil, fmt.Errorf("init lists: %w", err)
		}
	}
	return &Store{vals: vals, lists: lists}, nil
}

// Commit writes the collection back to the session values.
func (s *Store) Commit() error {
	if err := s.vals.Set(ListsKey, s.lists); err != nil {
		return fmt.Errorf("commit lists: %w", err)
	}
	return nil
}

// AllLists returns every list in insertion order.
func (s *Store) AllLists() []*domain.List {
	return slices.Clone(s.lists)
}

// FindList returns the list with the given id.
func (s *Store) FindList(id int) (*domain.List, bool) {
	for _, l := range s.lists {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

func (s *Store) CreateList(name string) *domain.List {
	l := &domain.List{
		ID:    domain.NextID(s.lists, func(l *domain.List) int { return l.ID }),
		Name:  name,
		Todos: []domain.Todo{},
	}
	s.lists = append(s.lists, l)
	return l
}

// DeleteList removes the list with id. Unknown ids are ignored.
func (s *Store) DeleteList(id int) {
	s.lists = slices.DeleteFunc(s.lists, func(l *domain.List) bool { return l.ID == id })
}

func (s *Store) RenameList(l *domain.List, name string) {
	l.Name = name
}

// AddTodo appends an incomplete todo with the next id scoped to l.
func (s *Store) AddTodo(l *domain.List, name string) domain.Todo {
	t := domain.Todo{
		ID:   domain.NextID(l.Todos, func(t domain.Todo) int { return t.ID }),
		Name: name,
	}
	l.Todos = append(l.Todos, t)
	return t
}

// DeleteTodo removes the todo with todoID from l. Unknown ids are ignored.
func (s *Store) DeleteTodo(l *domain.List, todoID int) {
	l.Todos = slices.DeleteFunc(l.Todos, func(t domain.Todo) bool { return t.ID == todoID })
}

func (s *Store) SetTodoCompleted(l *domain.List, todoID int, completed bool) error {
	i := l.FindTodo(todoID)
	if i < 0 {
		return fmt.Errorf("list %d todo %d: %w", l.ID, todoID, ErrTodoNotFound)
	}
	l.Todos[i].Completed = completed
	return nil
}

func (s *Store) CompleteAll(l *domain.List) {
	for i := range l.Todos {
		l.Todos[i].Completed = true
	}
}
