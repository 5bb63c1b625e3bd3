package dto

import "github.com/ChristopherBrum/todos-app/internal/domain"

// ListForm is the body of create-list and rename-list.
type ListForm struct {
	ListName string `form:"list_name"`
}

// TodoForm is the body of add-todo.
type TodoForm struct {
	Todo string `form:"todo"`
}

// CompletedForm is the body of set-todo-completed. Any value other than
// "true" means not completed.
type CompletedForm struct {
	Completed string `form:"completed"`
}

type ListView struct {
	ID        int
	Name      string
	Complete  bool
	Remaining int
	Total     int
}

type TodoView struct {
	ID        int
	Name      string
	Completed bool
}

// Page is the data handed to every template.
type Page struct {
	Success string
	Error   string

	Lists []ListView
	List  *ListView
	Todos []TodoView

	// ListName echoes the submitted name back into a redisplayed form.
	ListName string
}

func NewListView(l *domain.List) ListView {
	return ListView{
		ID:        l.ID,
		Name:      l.Name,
		Complete:  domain.IsListComplete(l),
		Remaining: domain.RemainingCount(l),
		Total:     domain.TotalCount(l),
	}
}

func NewListViews(lists []*domain.List) []ListView {
	out := make([]ListView, len(lists))
	for i, l := range lists {
		out[i] = NewListView(l)
	}
	return out
}

func NewTodoViews(todos []domain.Todo) []TodoView {
	out := make([]TodoView, len(todos))
	for i, t := range todos {
		out[i] = TodoView{ID: t.ID, Name: t.Name, Completed: t.Completed}
	}
	return out
}
