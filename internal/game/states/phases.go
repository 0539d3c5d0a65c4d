package states

import (
	"fmt"
	"slices"
)

// GamePhase represents the current phase of a simulation
type GamePhase int

const (
	// PhaseInitializing - World and map creation
	PhaseInitializing GamePhase = iota
	// PhaseSpawning - Players pick their starting tiles
	PhaseSpawning
	// PhaseRunning - Attacks, boats and income
	PhaseRunning
	// PhaseEnded - At most one side left
	PhaseEnded
	// PhaseError - Unrecoverable failure
	PhaseError
)

var phaseNames = [...]string{"Initializing", "Spawning", "Running", "Ended", "Error"}

// transitions lists the phases reachable from each phase. Terminal phases
// have no entry.
var transitions = map[GamePhase][]GamePhase{
	PhaseInitializing: {PhaseSpawning, PhaseError},
	PhaseSpawning:     {PhaseRunning, PhaseEnded, PhaseError},
	PhaseRunning:      {PhaseEnded, PhaseError},
}

func (p GamePhase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", int(p))
}

// ParsePhase converts a phase name back to a GamePhase. Unknown names map to
// PhaseInitializing.
func ParsePhase(s string) GamePhase {
	if i := slices.Index(phaseNames[:], s); i >= 0 {
		return GamePhase(i)
	}
	return PhaseInitializing
}

// IsTerminal reports whether the simulation can no longer advance
func (p GamePhase) IsTerminal() bool { return len(transitions[p]) == 0 }

// CanSpawn reports whether spawn actions are accepted
func (p GamePhase) CanSpawn() bool { return p == PhaseSpawning }

// CanAttack reports whether attack and boat actions are accepted
func (p GamePhase) CanAttack() bool { return p == PhaseRunning }

// AllowedTransitions returns a copy of the phases p can move to
func (p GamePhase) AllowedTransitions() []GamePhase {
	return append([]GamePhase{}, transitions[p]...)
}

func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	return slices.Contains(transitions[p], target)
}
