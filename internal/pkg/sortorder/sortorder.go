package sortorder

import "slices"

type Order string

const (
	Newest  Order = "newest"
	Oldest  Order = "oldest"
	Default       = Newest
)

func Parse(str string) Order {
	switch str {
	case string(Newest):
		return Newest
	case string(Oldest):
		return Oldest
	default:
		return Default
	}
}

// Arrange takes a newest-first list and returns it in the requested order.
// The input is not modified.
func Arrange[T any](order Order, newestFirst []T) []T {
	out := slices.Clone(newestFirst)
	if order == Oldest {
		slices.Reverse(out)
	}
	return out
}
