// Package calculator converts raw activity quantities into category emissions.
//
// Every factor table is static and the calculation is a pure function of its
// input: no I/O, no logging, no failure modes. Activity keys that are missing
// from a category's factor table contribute zero.
package calculator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Category identifies an emission category.
type Category string

// Known emission categories, in display order.
const (
	Transportation Category = "transportation"
	Energy         Category = "energy"
	Food           Category = "food"
	Waste          Category = "waste"
)

// TotalKey is the pseudo-category used for the breakdown total in flat maps.
const TotalKey = "total"

// Categories lists every emission category in display order.
//
//nolint:gochecknoglobals // Fixed category ordering shared by all packages.
var Categories = []Category{Transportation, Energy, Food, Waste}

// ParseCategory returns the Category for s, or false if s is not a known category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Amount is the quantity recorded for a single activity.
//
// Transportation entries are usually trips ({distance, frequency}); every
// other category records a scalar quantity (kWh, kg, therms, ...). Both forms
// decode from JSON and YAML: a bare number sets Quantity, an object sets
// Distance and Frequency.
type Amount struct {
	Quantity float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Distance float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	// Frequency is nil when omitted, which counts as a single trip.
	Frequency *float64 `json:"frequency,omitempty" yaml:"frequency,omitempty"`
}

// Qty returns a scalar Amount.
func Qty(v float64) Amount { return Amount{Quantity: v} }

// Trip returns a distance Amount repeated frequency times.
func Trip(distance, frequency float64) Amount {
	return Amount{Distance: distance, Frequency: &frequency}
}

// Times returns the trip frequency, 1 when it was omitted.
func (a Amount) Times() float64 {
	if a.Frequency == nil {
		return 1
	}
	return *a.Frequency
}

// Value returns the effective activity quantity.
// For trip amounts it is distance × frequency; an explicit zero frequency
// yields zero.
func (a Amount) Value() float64 {
	if a.Distance != 0 || a.Frequency != nil {
		return a.Distance * a.Times()
	}
	return a.Quantity
}

// UnmarshalJSON accepts either a number or a {distance, frequency} object.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount{Quantity: n}
		return nil
	}
	type plain Amount
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("amount must be a number or an object: %w", err)
	}
	*a = Amount(p)
	return nil
}

// UnmarshalYAML accepts either a number or a {distance, frequency} mapping.
func (a *Amount) UnmarshalYAML(unmarshal func(any) error) error {
	var n float64
	if err := unmarshal(&n); err == nil {
		*a = Amount{Quantity: n}
		return nil
	}
	type plain Amount
	var p plain
	if err := unmarshal(&p); err != nil {
		return fmt.Errorf("amount must be a number or a mapping: %w", err)
	}
	*a = Amount(p)
	return nil
}

// ActivityInput maps a category to its activity-type quantities.
type ActivityInput map[Category]map[string]Amount

// Breakdown holds per-category emissions (kg CO2) and their total.
//
// Categories absent from the input that produced the breakdown are absent
// here too; callers must read a missing key as "not computed", not as zero.
type Breakdown struct {
	Categories map[Category]float64
	Total      float64
}

// NewBreakdown builds a Breakdown whose Total is the sum of values.
func NewBreakdown(values map[Category]float64) Breakdown {
	b := Breakdown{Categories: make(map[Category]float64, len(values))}
	for _, c := range Categories {
		if v, ok := values[c]; ok {
			b.Categories[c] = v
			b.Total += v
		}
	}
	return b
}

// Get returns the emissions for c and whether the category was computed.
func (b Breakdown) Get(c Category) (float64, bool) {
	v, ok := b.Categories[c]
	return v, ok
}

// Value returns the emissions for c, or 0 when it was not computed.
func (b Breakdown) Value(c Category) float64 {
	return b.Categories[c]
}

// Present returns the computed categories in display order.
func (b Breakdown) Present() []Category {
	out := make([]Category, 0, len(b.Categories))
	for _, c := range Categories {
		if _, ok := b.Categories[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Highest returns the computed category with the largest emissions.
// Ties resolve to the earlier category in display order.
func (b Breakdown) Highest() (Category, bool) {
	var (
		best  Category
		found bool
	)
	for _, c := range b.Present() {
		if !found || b.Categories[c] > b.Categories[best] {
			best = c
			found = true
		}
	}
	return best, found
}

// Scale returns a copy of b with every value multiplied by f.
func (b Breakdown) Scale(f float64) Breakdown {
	scaled := make(map[Category]float64, len(b.Categories))
	for c, v := range b.Categories {
		scaled[c] = v * f
	}
	return NewBreakdown(scaled)
}

// MarshalJSON renders the breakdown as a flat object with a "total" key.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	flat := make(map[string]float64, len(b.Categories)+1)
	for c, v := range b.Categories {
		flat[string(c)] = v
	}
	flat[TotalKey] = b.Total
	return json.Marshal(flat)
}

// UnmarshalJSON reads a flat object; the total is recomputed from the categories.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	values := make(map[Category]float64, len(flat))
	for k, v := range flat {
		if c, ok := ParseCategory(k); ok {
			values[c] = v
		}
	}
	*b = NewBreakdown(values)
	return nil
}

// DailyRecord is one day of stored emissions, all values in kg CO2.
type DailyRecord struct {
	Date           time.Time `json:"date"`
	Transportation float64   `json:"transportation_emissions"`
	Energy         float64   `json:"energy_emissions"`
	Food           float64   `json:"food_emissions"`
	Waste          float64   `json:"waste_emissions"`
	Total          float64   `json:"total_emissions"`
}

// NewDailyRecord flattens a breakdown. Categories that were not computed are stored as zero.
func NewDailyRecord(date time.Time, b Breakdown) DailyRecord {
	return DailyRecord{
		Date:           date,
		Transportation: b.Value(Transportation),
		Energy:         b.Value(Energy),
		Food:           b.Value(Food),
		Waste:          b.Value(Waste),
		Total:          b.Total,
	}
}

// Value returns the emissions of category c.
func (r DailyRecord) Value(c Category) float64 {
	switch c {
	case Transportation:
		return r.Transportation
	case Energy:
		return r.Energy
	case Food:
		return r.Food
	case Waste:
		return r.Waste
	default:
		return 0
	}
}

// Breakdown returns the record as a breakdown with every category present.
func (r DailyRecord) Breakdown() Breakdown {
	return NewBreakdown(map[Category]float64{
		Transportation: r.Transportation,
		Energy:         r.Energy,
		Food:           r.Food,
		Waste:          r.Waste,
	})
}

// Totals returns the total column of records.
func Totals(records []DailyRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Total
	}
	return out
}

// sortedKeys returns the activity keys of m in lexical order.
func sortedKeys(m map[string]Amount) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
