package game

// EconomyParams controls troop income
type EconomyParams struct {
	// IncomeRate is the troops gained per owned tile per running tick
	IncomeRate float64 `json:"income_rate"`
	// MaxTroopsPerTile caps a player's troop pool relative to its territory
	MaxTroopsPerTile float64 `json:"max_troops_per_tile"`
	// StartingTroops is granted on spawn
	StartingTroops float64 `json:"starting_troops"`
}

func DefaultEconomyParams() EconomyParams {
	return EconomyParams{
		IncomeRate:       0.1,
		MaxTroopsPerTile: 25,
		StartingTroops:   100,
	}
}

// SpawnParams controls the spawn phase
type SpawnParams struct {
	// Ticks is the length of the spawn phase
	Ticks int `json:"ticks"`
	// Radius is the Manhattan radius of land claimed around a spawn tile
	Radius int `json:"radius"`
}

func DefaultSpawnParams() SpawnParams {
	return SpawnParams{
		Ticks:  20,
		Radius: 2,
	}
}
