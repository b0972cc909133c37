package domain

import "fmt"

// Category is a venue category with a stable machine code and a display label.
type Category struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Default category codes.
const (
	CategoryRestaurants = "RESTAURANTS_AND_CAFES"
	CategoryCinema      = "CINEMA_AND_CONCERTS"
	CategoryParks       = "PARKS_AND_MUSEUMS"
	CategoryShopping    = "SHOPPING_AND_STORES"
)

// DefaultCategories is the closed set offered when configuration does not extend it.
var DefaultCategories = []Category{
	{Code: CategoryRestaurants, Label: "Рестораны и кафе"},
	{Code: CategoryCinema, Label: "Кино и концерты"},
	{Code: CategoryParks, Label: "Парки и музеи"},
	{Code: CategoryShopping, Label: "Шоппинг и магазины"},
}

// CategorySet is an ordered, closed set of categories addressable by code.
type CategorySet struct {
	items []Category
	index map[string]int
}

// NewCategorySet builds a set from the given categories.
// Empty or duplicate codes are rejected.
func NewCategorySet(categories []Category) (*CategorySet, error) {
	set := &CategorySet{
		items: make([]Category, 0, len(categories)),
		index: make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if c.Code == "" {
			return nil, fmt.Errorf("category %q has an empty code", c.Label)
		}
		if _, dup := set.index[c.Code]; dup {
			return nil, fmt.Errorf("duplicate category code %q", c.Code)
		}
		if c.Label == "" {
			c.Label = c.Code
		}
		set.index[c.Code] = len(set.items)
		set.items = append(set.items, c)
	}
	return set, nil
}

// MustCategorySet is like NewCategorySet but panics on invalid input.
func MustCategorySet(categories []Category) *CategorySet {
	set, err := NewCategorySet(categories)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup returns the category for a code.
func (s *CategorySet) Lookup(code string) (Category, bool) {
	i, ok := s.index[code]
	if !ok {
		return Category{}, false
	}
	return s.items[i], true
}

// All returns the categories in their configured order.
func (s *CategorySet) All() []Category {
	out := make([]Category, len(s.items))
	copy(out, s.items)
	return out
}
