package service

import (
	"errors"
	"strings"

	"github.com/ChristopherBrum/todos-app/internal/domain"
	"github.com/ChristopherBrum/todos-app/internal/store"
)

var ErrNotFound = errors.New("not found")

// TodoService applies the name rules before every store mutation. A
// validation error means nothing was changed.
type TodoService struct {
	st *store.Store
}

func NewTodoService(st *store.Store) *TodoService {
	return &TodoService{st: st}
}

// Lists returns all lists, incomplete ones first.
func (s *TodoService) Lists() []*domain.List {
	return domain.SortedLists(s.st.AllLists())
}

func (s *TodoService) GetList(id int) (*domain.List, error) {
	l, ok := s.st.FindList(id)
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *TodoService) CreateList(name string) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateListName(name, s.st.AllLists()); err != nil {
		return nil, err
	}
	return s.st.CreateList(name), nil
}

// RenameList checks uniqueness against every list, the renamed one included.
func (s *TodoService) RenameList(id int, name string) (*domain.List, error) {
	l, err := s.GetList(id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := domain.ValidateListName(name, s.st.AllLists()); err != nil {
		return l, err
	}
	s.st.RenameList(l, name)
	return l, nil
}

func (s *TodoService) DeleteList(id int) {
	s.st.DeleteList(id)
}

func (s *TodoService) AddTodo(listID int, name string) (*domain.List, error) {
	l, err := s.GetList(listID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := domain.ValidateTodoName(name); err != nil {
		return l, err
	}
	s.st.AddTodo(l, name)
	return l, nil
}

func (s *TodoService) DeleteTodo(listID, todoID int) error {
	l, err := s.GetList(listID)
	if err != nil {
		return err
	}
	s.st.DeleteTodo(l, todoID)
	return nil
}

func (s *TodoService) SetTodoCompleted(listID, todoID int, completed bool) error {
	l, err := s.GetList(listID)
	if err != nil {
		return err
	}
	if err := s.st.SetTodoCompleted(l, todoID, completed); err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TodoService) CompleteAll(listID int) error {
	l, err := s.GetList(listID)
	if err != nil {
		return err
	}
	s.st.CompleteAll(l)
	return nil
}
