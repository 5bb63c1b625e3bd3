package domain

// Todo is a named task owned by exactly one List.
// IDs are unique within the parent list only.
type Todo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// List is a named, ordered collection of todos. Todos keep insertion order.
type List struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Todos []Todo `json:"todos"`
}

// FindTodo returns the index of the todo with the given id, or -1.
func (l *List) FindTodo(id int) int {
	for i := range l.Todos {
		if l.Todos[i].ID == id {
			return i
		}
	}
	return -1
}
