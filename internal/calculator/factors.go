package calculator

import "sort"

// Emission factors in kg CO2 per activity unit.
//
// Units: transportation per mile travelled, electricity per kWh, natural gas
// per therm, heating oil and propane per gallon, coal and wood per pound/kg,
// food per kg purchased, waste per kg disposed.
//
//nolint:gochecknoglobals // Static lookup tables.
var factorTables = map[Category]map[string]float64{
	Transportation: {
		"car_gasoline":        0.411,
		"car_diesel":          0.364,
		"car_electric":        0.1,
		"car_hybrid":          0.25,
		"bus":                 0.089,
		"train":               0.041,
		"subway":              0.035,
		"plane_domestic":      0.255,
		"plane_international": 0.195,
		"motorcycle":          0.197,
		"scooter_electric":    0.05,
		"bicycle":             0.0,
		"walking":             0.0,
	},
	Energy: {
		"electricity": 0.92,
		"natural_gas": 5.3,
		"heating_oil": 10.15,
		"propane":     5.68,
		"coal":        2.23,
		"wood":        1.87,
	},
	Food: {
		"beef":           27.0,
		"lamb":           39.2,
		"pork":           12.1,
		"chicken":        6.9,
		"turkey":         10.9,
		"fish":           6.1,
		"dairy":          3.2,
		"cheese":         13.5,
		"eggs":           4.8,
		"vegetables":     2.0,
		"fruits":         1.1,
		"grains":         2.5,
		"nuts":           2.3,
		"processed_food": 5.8,
		"beverages":      1.4,
	},
	Waste: {
		"landfill":         0.57,
		"recycling":        0.0,
		"composting":       0.0,
		"incineration":     0.7,
		"electronic_waste": 2.1,
	},
}

// Factor returns the emission factor for an activity and whether it is known.
func Factor(c Category, activity string) (float64, bool) {
	table, ok := factorTables[c]
	if !ok {
		return 0, false
	}
	f, ok := table[activity]
	return f, ok
}

// Activities returns the known activity keys for a category, sorted.
func Activities(c Category) []string {
	table := factorTables[c]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
