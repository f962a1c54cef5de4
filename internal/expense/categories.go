// categories.go - The closed category enumeration and its keyword table

package expense

import "strings"

// Category pairs an enumeration member with the subcategory keywords used
// for fallback matching. Keywords are never stored; only the category name
// is.
type Category struct {
	Name     string
	Keywords []string
}

// Categories is the fixed, closed enumeration. Order matters: fallback
// keyword matching scans the flattened (category, keyword) pairs in table
// order and the first hit wins, so the tie-break is auditable here.
var Categories = []Category{
	{Name: "Food", Keywords: []string{"Dining Out", "Takeout", "Coffee"}},
	{Name: "Groceries", Keywords: []string{"Supermarket", "Vegetables", "Meat"}},
	{Name: "Travel", Keywords: []string{"Flight", "Hotel", "Taxi", "Fuel"}},
	{Name: "Utilities", Keywords: []string{"Electricity", "Water", "Internet", "Mobile"}},
	{Name: "Entertainment", Keywords: []string{"Movies", "Streaming", "Games"}},
	{Name: "Shopping", Keywords: []string{"Clothing", "Electronics", "Accessories"}},
	{Name: "Health", Keywords: []string{"Medicine", "Doctor", "Gym"}},
	{Name: "Services", Keywords: []string{"Repairs", "Cleaning", "Maintenance"}},
	{Name: "Rent/Mortgage", Keywords: []string{"Rent", "Mortgage", "Maintenance"}},
	{Name: "Education", Keywords: []string{"Books", "Courses", "School Fees"}},
	{Name: "Gifts/Donations", Keywords: []string{"Birthday", "Charity", "Wedding"}},
	{Name: "Other", Keywords: []string{"Miscellaneous", "Uncategorized"}},
}

// DefaultCategory is the only field default the extraction pipeline
// guarantees: category is always a member of the enumeration.
const DefaultCategory = "Other"

// CategoryNames returns the enumeration members in table order.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}

// IsValidCategory reports whether name is literally an enumeration member.
func IsValidCategory(name string) bool {
	for _, c := range Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

type categoryKeyword struct {
	category string
	keyword  string // lower-cased
}

// flattenedKeywords is the keyword table flattened into ordered
// (category, keyword) pairs for first-hit-wins scanning.
var flattenedKeywords = func() []categoryKeyword {
	var pairs []categoryKeyword
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			pairs = append(pairs, categoryKeyword{category: c.Name, keyword: strings.ToLower(kw)})
		}
	}
	return pairs
}()

// MatchCategory scans the lower-cased text for the first keyword that occurs
// as a substring, in table order. No match returns DefaultCategory.
func MatchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, pair := range flattenedKeywords {
		if strings.Contains(lower, pair.keyword) {
			return pair.category
		}
	}
	return DefaultCategory
}
