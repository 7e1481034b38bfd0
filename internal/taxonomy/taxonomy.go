// Package taxonomy defines the fixed category → subcategory →
// extra-specification hierarchy used by the product catalog. The table is
// static configuration: the catalog never invents categories at runtime,
// it only validates product payloads against this enumeration.
package taxonomy

import (
	"fmt"
	"sort"

	"solarsite/internal/slug"
)

// Table maps category → subcategory → allowed extra-specification labels.
// A nil (or empty) label list means the subcategory takes no extra
// specification; a non-empty list means one of its labels is required.
var Table = map[string]map[string][]string{
	"inverters": {
		"single-phase": {"ASW S", "ASW S-S"},
		"three-phase":  {"ASW LT", "ASW MT", "ASW HT"},
		"hybrid":       nil,
	},
	"batteries": {
		"low-voltage":  nil,
		"high-voltage": {"5 kWh", "10 kWh", "15 kWh"},
	},
	"accessories": {
		"monitoring":  nil,
		"meters":      nil,
		"ev-chargers": nil,
	},
}

// Categories returns all category names in sorted order.
func Categories() []string {
	names := make([]string, 0, len(Table))
	for name := range Table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subcategories returns the subcategory names of a category in sorted
// order, and whether the category exists.
func Subcategories(category string) ([]string, bool) {
	subs, ok := Table[category]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, true
}

// Extras returns the extra-specification labels for a subcategory.
// Returns nil when the subcategory takes no extras or does not exist.
func Extras(category, subCategory string) []string {
	subs, ok := Table[category]
	if !ok {
		return nil
	}
	return subs[subCategory]
}

// Known reports whether the category/subCategory pair exists in the table,
// regardless of whether the subcategory takes an extra specification.
func Known(category, subCategory string) bool {
	subs, ok := Table[category]
	if !ok {
		return false
	}
	_, ok = subs[subCategory]
	return ok
}

// Check validates a category/subCategory/extraCategory triple against the
// table. extra is nil when the payload carries no extra specification.
func Check(category, subCategory string, extra *string) error {
	subs, ok := Table[category]
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}

	extras, ok := subs[subCategory]
	if !ok {
		return fmt.Errorf("unknown subcategory %q in category %q", subCategory, category)
	}

	if len(extras) == 0 {
		if extra != nil {
			return fmt.Errorf("subcategory %q takes no extra specification", subCategory)
		}
		return nil
	}

	if extra == nil {
		return fmt.Errorf("subcategory %q requires an extra specification (one of %v)", subCategory, extras)
	}
	for _, label := range extras {
		if *extra == label {
			return nil
		}
	}
	return fmt.Errorf("unknown extra specification %q for subcategory %q (one of %v)", *extra, subCategory, extras)
}

// Validate checks the table itself for structural mistakes. It runs once
// at startup so a bad edit to the table fails fast instead of admitting
// unclassifiable products.
func Validate() error {
	if len(Table) == 0 {
		return fmt.Errorf("taxonomy table is empty")
	}
	for category, subs := range Table {
		if !slug.Valid(category) {
			return fmt.Errorf("category name %q is not URL-safe", category)
		}
		if len(subs) == 0 {
			return fmt.Errorf("category %q has no subcategories", category)
		}
		for subCategory, extras := range subs {
			if !slug.Valid(subCategory) {
				return fmt.Errorf("subcategory name %q is not URL-safe", subCategory)
			}
			seen := make(map[string]bool, len(extras))
			for _, label := range extras {
				if label == "" {
					return fmt.Errorf("subcategory %q has an empty extra-specification label", subCategory)
				}
				if seen[label] {
					return fmt.Errorf("subcategory %q lists extra specification %q twice", subCategory, label)
				}
				seen[label] = true
			}
		}
	}
	return nil
}
