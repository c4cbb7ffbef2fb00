package models

// Categories is the fixed closed set of item categories
var Categories = []string{
	"Electronics",
	"Clothing",
	"Accessories",
	"Books",
	"Keys",
	"IDs",
	"Bags",
	"Sports Equipment",
	"Stationery",
	"Others",
}

// IsValidCategory reports whether c is one of the fixed categories
func IsValidCategory(c string) bool {
	for _, category := range Categories {
		if category == c {
			return true
		}
	}
	return false
}
