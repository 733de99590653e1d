package domain

// BeerQuery is a bounded, deterministic plan for a beer list query:
// which filter path to take plus normalized limit/offset. Results are
// always sorted by name ascending.
type BeerQuery struct {
	Name     string
	Style    Style
	HasName  bool
	HasStyle bool
	Limit    int
	Offset   int
}
