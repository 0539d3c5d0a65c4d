package attack

import "math"

// maxExpansionTime is the largest per-tile expansion time a map can carry
const maxExpansionTime = 255

// Params holds the balancing constants of land attacks
type Params struct {
	// JitterBase and JitterRange scale each tile's delay by JitterBase + rand*JitterRange
	JitterBase  float64
	JitterRange float64
	// ExpansionCostDivisor converts a tile's expansion cost into troops
	ExpansionCostDivisor float64
	// AttackCostMultiplier scales the target's troop density into a per-tile cost
	AttackCostMultiplier float64
	// DefenseDivisor turns the per-tile attack cost into the defender's loss
	DefenseDivisor float64
	// speed factor = SpeedNumerator / (SpeedOffset + ln(1 + min(SpeedRatioCap, ratio)))
	SpeedNumerator float64
	SpeedOffset    float64
	SpeedRatioCap  float64
}

func DefaultParams() Params {
	return Params{
		JitterBase:           0.6,
		JitterRange:          0.8,
		ExpansionCostDivisor: 50,
		AttackCostMultiplier: 2,
		DefenseDivisor:       1.7,
		SpeedNumerator:       2,
		SpeedOffset:          0.325,
		SpeedRatioCap:        50,
	}
}

// MaxSpeedFactor is the speed factor at a strength ratio of zero, the slowest an attack can be
func (p Params) MaxSpeedFactor() float64 {
	return p.SpeedNumerator / p.SpeedOffset
}

// RingSize is the worst-case tile delay plus one
func (p Params) RingSize() int {
	worst := p.MaxSpeedFactor() * maxExpansionTime * (p.JitterBase + p.JitterRange)
	return int(math.Floor(worst)) + 1
}

// AttackCost is the troops spent per conquered tile before expansion cost
func (p Params) AttackCost(targetTroops float64, targetSize int) float64 {
	return math.Floor(targetTroops / float64(max(1, targetSize)) * p.AttackCostMultiplier)
}

// DefenseCost is the defender's troop loss per tile lost
func (p Params) DefenseCost(attackCost float64) float64 {
	return math.Ceil((1 + attackCost) / p.DefenseDivisor)
}

// SpeedFactor multiplies tile delays; stronger attackers get smaller factors
func (p Params) SpeedFactor(attackerSize int, attackerTroops float64, targetSize int, targetTroops float64) float64 {
	ratio := float64(attackerSize) * attackerTroops / float64(max(1, targetSize)) / math.Max(1, targetTroops)
	return p.SpeedNumerator / (p.SpeedOffset + math.Log(1+math.Min(p.SpeedRatioCap, ratio)))
}
