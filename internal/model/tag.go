package model

import "strings"

// Tag is a member of the closed category set.
type Tag string

const (
	TagSalary         Tag = "Salary"
	TagBusiness       Tag = "Business"
	TagInvestment     Tag = "Investment"
	TagOther          Tag = "Other"
	TagTransportation Tag = "Transportation"
	TagUtilities      Tag = "Utilities"
	TagEntertainment  Tag = "Entertainment"
	TagMedical        Tag = "Medical"
	TagFood           Tag = "Food"
	TagOthers         Tag = "Others"
)

// Tags lists the full tag set in canonical order.
var Tags = []Tag{
	TagSalary, TagBusiness, TagInvestment, TagOther,
	TagTransportation, TagUtilities, TagEntertainment, TagMedical, TagFood, TagOthers,
}

// IncomeTags is the subset allowed on income records.
var IncomeTags = []Tag{TagSalary, TagBusiness, TagInvestment, TagOther}

// ParseTag matches s against the tag set ignoring case and surrounding space.
func ParseTag(s string) (Tag, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Tags {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is exactly one of the canonical tags.
func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

// IsIncome reports whether t belongs to the income subset.
func (t Tag) IsIncome() bool {
	for _, it := range IncomeTags {
		if t == it {
			return true
		}
	}
	return false
}
