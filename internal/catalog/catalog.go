// Package catalog loads the per-location food catalog and derives filtered
// working copies for a single plan request.
package catalog

import "errors"

var (
	// ErrUnknownLocation is returned when a location key has no catalog entry.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrInvalidCatalog is returned when a catalog document fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog document")
)

// SplitList is a food group with a general list and a breakfast-specific list.
type SplitList struct {
	All       []string `json:"all"`
	Breakfast []string `json:"breakfast"`
}

// FoodCatalog is the food list available in one location.
type FoodCatalog struct {
	Carbs      SplitList `json:"carbs"`
	Proteins   SplitList `json:"proteins"`
	Vegetables []string  `json:"vegetables"`
	Fruits     []string  `json:"fruits"`
	Snacks     []string  `json:"snacks"`
}

// ListRef names one sub-list of a FoodCatalog.
type ListRef int

const (
	CarbsAll ListRef = iota
	CarbsBreakfast
	ProteinsAll
	ProteinsBreakfast
	Vegetables
	Fruits
	Snacks
)

// AllLists is every sub-list of a catalog.
var AllLists = []ListRef{CarbsAll, CarbsBreakfast, ProteinsAll, ProteinsBreakfast, Vegetables, Fruits, Snacks}

func (r ListRef) String() string {
	switch r {
	case CarbsAll:
		return "carbs.all"
	case CarbsBreakfast:
		return "carbs.breakfast"
	case ProteinsAll:
		return "proteins.all"
	case ProteinsBreakfast:
		return "proteins.breakfast"
	case Vegetables:
		return "vegetables"
	case Fruits:
		return "fruits"
	case Snacks:
		return "snacks"
	}
	return "unknown"
}

// List returns a pointer to the referenced sub-list.
func (c *FoodCatalog) List(ref ListRef) *[]string {
	switch ref {
	case CarbsAll:
		return &c.Carbs.All
	case CarbsBreakfast:
		return &c.Carbs.Breakfast
	case ProteinsAll:
		return &c.Proteins.All
	case ProteinsBreakfast:
		return &c.Proteins.Breakfast
	case Vegetables:
		return &c.Vegetables
	case Fruits:
		return &c.Fruits
	case Snacks:
		return &c.Snacks
	}
	return nil
}

// Clone returns a deep copy sharing no backing arrays with c. Nil lists come
// back as empty lists.
func (c FoodCatalog) Clone() FoodCatalog {
	return FoodCatalog{
		Carbs:      SplitList{All: cloneList(c.Carbs.All), Breakfast: cloneList(c.Carbs.Breakfast)},
		Proteins:   SplitList{All: cloneList(c.Proteins.All), Breakfast: cloneList(c.Proteins.Breakfast)},
		Vegetables: cloneList(c.Vegetables),
		Fruits:     cloneList(c.Fruits),
		Snacks:     cloneList(c.Snacks),
	}
}

func cloneList(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
