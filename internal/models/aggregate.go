package models

import "sort"

// PayerGroup is the set of rows paid to one recipient.
type PayerGroup struct {
	Payer       string     `json:"payer"`
	TotalAmount float64    `json:"total_amount"`
	Rows        []TypedRow `json:"rows"`
}

// YearBucket maps year to month (1..12) to the summed amount of that month.
type YearBucket map[int]map[int]float64

// Years returns the years present in b in ascending order.
func (b YearBucket) Years() []int {
	years := make([]int, 0, len(b))
	for y := range b {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
