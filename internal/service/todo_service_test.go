package service

import (
	"strings"
	"testing"

	"github.com/ChristopherBrum/todos-app/internal/domain"
	"github.com/ChristopherBrum/todos-app/internal/session"
	"github.com/ChristopherBrum/todos-app/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*TodoService, *store.Store) {
	t.Helper()
	st, err := store.New(session.New("test"))
	require.NoError(t, err)
	return NewTodoService(st), st
}

func TestCreateListTrimsAndValidates(t *testing.T) {
	svc, st := newService(t)

	l, err := svc.CreateList("  Groceries  ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", l.Name)

	_, err = svc.CreateList("Groceries")
	assert.EqualError(t, err, "List name must be unique")
	assert.Len(t, st.AllLists(), 1)

	_, err = svc.CreateList("   ")
	assert.EqualError(t, err, "List name must be between 1 and 100 characters")
	assert.Len(t, st.AllLists(), 1)
}

func TestRenameList(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateList("Work")
	require.NoError(t, err)
	_, err = svc.CreateList("Home")
	require.NoError(t, err)

	_, err = svc.RenameList(1, "Home")
	assert.EqualError(t, err, "List name must be unique")

	_, err = svc.RenameList(1, "Work")
	assert.EqualError(t, err, "List name must be unique")

	l, err := svc.RenameList(1, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", l.Name)

	_, err = svc.RenameList(9, "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTodoTooLong(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateList("Groceries")
	require.NoError(t, err)

	l, err := svc.AddTodo(1, strings.Repeat("x", 101))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Todo must be between 1 and 100 characters", verr.Msg)
	assert.Empty(t, l.Todos)
}

func TestUnknownList(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetList(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AddTodo(1, "Milk")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTodo(1, 1), ErrNotFound)
	assert.ErrorIs(t, svc.SetTodoCompleted(1, 1, true), ErrNotFound)
	assert.ErrorIs(t, svc.CompleteAll(1), ErrNotFound)
}

func TestSetTodoCompletedUnknownTodo(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateList("Groceries")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetTodoCompleted(1, 5, true), ErrNotFound)
}

func TestListsSortedIncompleteFirst(t *testing.T) {
	svc, _ := newService(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.CreateList(name)
		require.NoError(t, err)
	}
	_, err := svc.AddTodo(1, "done")
	require.NoError(t, err)
	require.NoError(t, svc.CompleteAll(1))

	var names []string
	for _, l := range svc.Lists() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"B", "C", "A"}, names)
}

func TestCompleteAllScenario(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateList("Groceries")
	require.NoError(t, err)
	_, err = svc.AddTodo(1, "Milk")
	require.NoError(t, err)
	_, err = svc.AddTodo(1, "Eggs")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteAll(1))
	l, err := svc.GetList(1)
	require.NoError(t, err)
	assert.True(t, domain.IsListComplete(l))

	require.NoError(t, svc.SetTodoCompleted(1, 1, false))
	assert.Equal(t, 1, domain.RemainingCount(l))
}
