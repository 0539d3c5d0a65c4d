package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

func TestModes_CanAttack(t *testing.T) {
	ps := core.NewPlayers(3, 10)
	a, b, c := ps.Get(0), ps.Get(1), ps.Get(2)
	a.Team, b.Team, c.Team = 0, 0, 1

	tests := []struct {
		name     string
		mode     GameMode
		attacker *core.Player
		target   *core.Player
		want     bool
	}{
		{"ffa other", FreeForAll{}, a, b, true},
		{"ffa self", FreeForAll{}, a, a, false},
		{"ffa nil target", FreeForAll{}, a, nil, false},
		{"teams ally", Teams{}, a, b, false},
		{"teams enemy", Teams{}, a, c, true},
		{"teams self", Teams{}, c, c, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.CanAttack(tt.attacker, tt.target))
		})
	}
}

func TestModeByName(t *testing.T) {
	m, err := ModeByName("FFA")
	require.NoError(t, err)
	assert.Equal(t, "ffa", m.Name())

	m, err = ModeByName(" teams ")
	require.NoError(t, err)
	assert.Equal(t, "teams", m.Name())

	_, err = ModeByName("battle-royale")
	assert.Error(t, err)
}

func TestAssignTeams(t *testing.T) {
	ps := core.NewPlayers(5, 10)
	AssignTeams(ps.All(), 2)
	got := []int{}
	for _, p := range ps.All() {
		got = append(got, p.Team)
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0}, got)
}

func TestCheckGameOver(t *testing.T) {
	ps := core.NewPlayers(3, 10)
	wc := NewWinConditionChecker(zerolog.Nop(), FreeForAll{}, 3)

	over, winner := wc.CheckGameOver(ps.All())
	assert.False(t, over)
	assert.Equal(t, -1, winner)

	ps.Get(0).Eliminate()
	ps.Get(2).Eliminate()
	over, winner = wc.CheckGameOver(ps.All())
	assert.True(t, over)
	assert.Equal(t, 1, winner)

	ps.Get(1).Eliminate()
	over, winner = wc.CheckGameOver(ps.All())
	assert.True(t, over)
	assert.Equal(t, -1, winner)
}

func TestCheckGameOver_Teams(t *testing.T) {
	ps := core.NewPlayers(4, 10)
	AssignTeams(ps.All(), 2)
	wc := NewWinConditionChecker(zerolog.Nop(), Teams{}, 4)

	ps.Get(0).Eliminate()
	over, _ := wc.CheckGameOver(ps.All())
	assert.False(t, over)

	ps.Get(2).Eliminate()
	over, winner := wc.CheckGameOver(ps.All())
	assert.True(t, over)
	assert.Equal(t, 1, winner, "lowest id wins a territory tie")
}

func TestCheckGameOver_SinglePlayer(t *testing.T) {
	ps := core.NewPlayers(1, 10)
	wc := NewWinConditionChecker(zerolog.Nop(), FreeForAll{}, 1)

	over, _ := wc.CheckGameOver(ps.All())
	assert.False(t, over)
	ps.Get(0).Eliminate()
	over, _ = wc.CheckGameOver(ps.All())
	assert.True(t, over)
}
