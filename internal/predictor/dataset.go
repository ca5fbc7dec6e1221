// Package predictor trains regression models that estimate a person's annual
// carbon footprint (kg CO2) from demographic and lifestyle features.
//
// Training produces an immutable Bundle: label encoders for the categorical
// fields, a standard scaler, the fit-time feature order and one fitted
// regressor per model variant. Bundles are published through a ModelStore,
// which swaps a freshly trained bundle in atomically.
package predictor

import "fmt"

// FeatureVector is the fixed 18-field record consumed by the models.
// LocationType and VehicleType are categorical; every other field is numeric.
type FeatureVector struct {
	Age                     float64 `json:"age"                        yaml:"age"`
	Income                  float64 `json:"income"                     yaml:"income"`
	HouseholdSize           float64 `json:"household_size"             yaml:"household_size"`
	LocationType            string  `json:"location_type"              yaml:"location_type"`
	CarMilesPerWeek         float64 `json:"car_miles_per_week"         yaml:"car_miles_per_week"`
	PublicTransportUsage    float64 `json:"public_transport_usage"     yaml:"public_transport_usage"`
	FlightsPerYear          float64 `json:"flights_per_year"           yaml:"flights_per_year"`
	VehicleType             string  `json:"vehicle_type"               yaml:"vehicle_type"`
	ElectricityKWhMonthly   float64 `json:"electricity_kwh_monthly"    yaml:"electricity_kwh_monthly"`
	NaturalGasThermsMonthly float64 `json:"natural_gas_therms_monthly" yaml:"natural_gas_therms_monthly"`
	HomeSizeSqft            float64 `json:"home_size_sqft"             yaml:"home_size_sqft"`
	RenewableEnergy         float64 `json:"renewable_energy"           yaml:"renewable_energy"`
	MeatMealsPerWeek        float64 `json:"meat_meals_per_week"        yaml:"meat_meals_per_week"`
	LocalFoodPercentage     float64 `json:"local_food_percentage"      yaml:"local_food_percentage"`
	OrganicFoodPercentage   float64 `json:"organic_food_percentage"    yaml:"organic_food_percentage"`
	WasteKgPerWeek          float64 `json:"waste_kg_per_week"          yaml:"waste_kg_per_week"`
	RecyclingPercentage     float64 `json:"recycling_percentage"       yaml:"recycling_percentage"`
	Composting              float64 `json:"composting"                 yaml:"composting"`
}

// Categorical field names.
const (
	FieldLocationType = "location_type"
	FieldVehicleType  = "vehicle_type"
)

// FeatureNames is the model input order.
//
//nolint:gochecknoglobals // Fixed schema shared by training and inference.
var FeatureNames = []string{
	"age",
	"income",
	"household_size",
	FieldLocationType,
	"car_miles_per_week",
	"public_transport_usage",
	"flights_per_year",
	FieldVehicleType,
	"electricity_kwh_monthly",
	"natural_gas_therms_monthly",
	"home_size_sqft",
	"renewable_energy",
	"meat_meals_per_week",
	"local_food_percentage",
	"organic_food_percentage",
	"waste_kg_per_week",
	"recycling_percentage",
	"composting",
}

// CategoricalFields lists the label-encoded fields.
//
//nolint:gochecknoglobals // Fixed schema.
var CategoricalFields = []string{FieldLocationType, FieldVehicleType}

// Category returns the value of a categorical field.
func (f FeatureVector) Category(field string) (string, error) {
	switch field {
	case FieldLocationType:
		return f.LocationType, nil
	case FieldVehicleType:
		return f.VehicleType, nil
	default:
		return "", fmt.Errorf("%q is not a categorical field", field)
	}
}

// row returns the feature values in FeatureNames order. Categorical slots
// hold the codes produced by encode.
func (f FeatureVector) row(encode func(field, value string) (float64, error)) ([]float64, error) {
	loc, err := encode(FieldLocationType, f.LocationType)
	if err != nil {
		return nil, err
	}
	veh, err := encode(FieldVehicleType, f.VehicleType)
	if err != nil {
		return nil, err
	}
	return []float64{
		f.Age,
		f.Income,
		f.HouseholdSize,
		loc,
		f.CarMilesPerWeek,
		f.PublicTransportUsage,
		f.FlightsPerYear,
		veh,
		f.ElectricityKWhMonthly,
		f.NaturalGasThermsMonthly,
		f.HomeSizeSqft,
		f.RenewableEnergy,
		f.MeatMealsPerWeek,
		f.LocalFoodPercentage,
		f.OrganicFoodPercentage,
		f.WasteKgPerWeek,
		f.RecyclingPercentage,
		f.Composting,
	}, nil
}

// Sample is one labeled training row. Target is the annual footprint in kg CO2.
type Sample struct {
	Features FeatureVector `json:"features"`
	Target   float64       `json:"carbon_footprint"`
}

// Dataset is an ordered collection of samples.
type Dataset struct {
	Samples []Sample `json:"samples"`
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.Samples) }

// Targets returns the target column.
func (d Dataset) Targets() []float64 {
	out := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Target
	}
	return out
}

// Head returns a dataset holding at most the first n samples.
func (d Dataset) Head(n int) Dataset {
	if n < 0 || n >= len(d.Samples) {
		return d
	}
	return Dataset{Samples: d.Samples[:n]}
}
