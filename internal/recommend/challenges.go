package recommend

// Challenge is a fixed community challenge.
type Challenge struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	DurationDays    int        `json:"duration_days"`
	EstimatedImpact int        `json:"estimated_impact"`
	Difficulty      Difficulty `json:"difficulty"`
}

// CommunityChallenges returns the community challenges in display order.
func CommunityChallenges() []Challenge {
	return []Challenge{
		{
			Name:            "Car-Free Week",
			Description:     "Use only public transport, cycling, or walking for one week",
			DurationDays:    7,
			EstimatedImpact: -50,
			Difficulty:      DifficultyMedium,
		},
		{
			Name:            "Plant-Based Challenge",
			Description:     "Eat only plant-based meals for two weeks",
			DurationDays:    14,
			EstimatedImpact: -30,
			Difficulty:      DifficultyMedium,
		},
		{
			Name:            "Zero Waste Weekend",
			Description:     "Produce no landfill waste for an entire weekend",
			DurationDays:    2,
			EstimatedImpact: -5,
			Difficulty:      DifficultyHigh,
		},
		{
			Name:            "Energy Saver Month",
			Description:     "Reduce energy consumption by 20% for one month",
			DurationDays:    30,
			EstimatedImpact: -100,
			Difficulty:      DifficultyMedium,
		},
		{
			Name:            "Local Food Challenge",
			Description:     "Eat only locally sourced food for one week",
			DurationDays:    7,
			EstimatedImpact: -15,
			Difficulty:      DifficultyLow,
		},
	}
}
