package domain

// Partition returns items split into two stable groups: those for which
// done reports false first, then those for which it reports true.
func Partition[T any](items []T, done func(T) bool) []T {
	out := make([]T, 0, len(items))
	var tail []T
	for _, it := range items {
		if done(it) {
			tail = append(tail, it)
			continue
		}
		out = append(out, it)
	}
	return append(out, tail...)
}

// NextID returns max(id)+1 over items, or 1 when items is empty.
func NextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, it := range items {
		if v := id(it); v > highest {
			highest = v
		}
	}
	return highest + 1
}

// IsListComplete reports whether l has at least one todo and none remaining.
func IsListComplete(l *List) bool {
	return TotalCount(l) > 0 && RemainingCount(l) == 0
}

// SortedLists puts incomplete lists before complete ones, preserving relative order.
func SortedLists(lists []*List) []*List {
	return Partition(lists, IsListComplete)
}

// SortedTodos puts incomplete todos before completed ones, preserving relative order.
func SortedTodos(todos []Todo) []Todo {
	return Partition(todos, func(t Todo) bool { return t.Completed })
}

func RemainingCount(l *List) int {
	n := 0
	for _, t := range l.Todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

func TotalCount(l *List) int {
	return len(l.Todos)
}
