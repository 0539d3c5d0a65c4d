package rules

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

// GameMode decides which players may attack each other and who counts as
// the same side for the end of the game
type GameMode interface {
	Name() string
	// CanAttack gates land attacks and boat landings between two players
	CanAttack(attacker, target *core.Player) bool
	// Side groups players that win together
	Side(p *core.Player) int
}

// FreeForAll lets every player attack every other player
type FreeForAll struct{}

func (FreeForAll) Name() string { return "ffa" }

func (FreeForAll) CanAttack(attacker, target *core.Player) bool {
	return attacker != nil && target != nil && attacker.ID != target.ID
}

func (FreeForAll) Side(p *core.Player) int { return int(p.ID) }

// Teams forbids attacks between players sharing a team
type Teams struct{}

func (Teams) Name() string { return "teams" }

func (Teams) CanAttack(attacker, target *core.Player) bool {
	return attacker != nil && target != nil && attacker.ID != target.ID && attacker.Team != target.Team
}

func (Teams) Side(p *core.Player) int { return p.Team }

// ModeByName resolves a configured mode name
func ModeByName(name string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ffa", "free_for_all":
		return FreeForAll{}, nil
	case "teams":
		return Teams{}, nil
	default:
		return nil, fmt.Errorf("unknown game mode %q", name)
	}
}

// AssignTeams spreads players round-robin over n teams
func AssignTeams(players []*core.Player, n int) {
	if n <= 0 {
		n = 1
	}
	for i, p := range players {
		p.Team = i % n
	}
}
