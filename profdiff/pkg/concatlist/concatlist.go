package concatlist

// List is a singly linked sequence which supports O(1) append, prepend and concatenation.
// The zero value is an empty list ready to use.
type List[T any] struct {
	head *node[T]
	tail *node[T]
	size int
}

type node[T any] struct {
	value T
	next  *node[T]
}

func New[T any](values ...T) *List[T] {
	l := &List[T]{}
	for _, v := range values {
		l.Append(v)
	}
	return l
}

func (l *List[T]) Len() int {
	return l.size
}

func (l *List[T]) IsEmpty() bool {
	return l.size == 0
}

func (l *List[T]) Append(value T) {
	n := &node[T]{value: value}
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.size++
}

func (l *List[T]) Prepend(value T) {
	n := &node[T]{value: value, next: l.head}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.size++
}

// TransferFrom moves every element of other to the end of l and leaves other empty.
// Transferring a list into itself is a no-op.
func (l *List[T]) TransferFrom(other *List[T]) {
	if other == nil || other == l || other.head == nil {
		return
	}
	if l.tail == nil {
		l.head = other.head
	} else {
		l.tail.next = other.head
	}
	l.tail = other.tail
	l.size += other.size

	other.head, other.tail, other.size = nil, nil, 0
}

// ForEach calls f for every element in order until f returns false.
func (l *List[T]) ForEach(f func(T) bool) {
	for n := l.head; n != nil; n = n.next {
		if !f(n.value) {
			return
		}
	}
}

func (l *List[T]) Slice() []T {
	res := make([]T, 0, l.size)
	for n := l.head; n != nil; n = n.next {
		res = append(res, n.value)
	}
	return res
}
