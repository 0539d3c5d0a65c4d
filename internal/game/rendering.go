package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/common"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

const (
	waterSymbol     = '~'
	unclaimedSymbol = '.'
	boatSymbol      = '^'
	playerSymbols   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Render returns a text map of the world: '~' water, '.' unclaimed land,
// letters for players and '^' for boats. color adds ANSI player colors.
func (e *Engine) Render(color bool) string {
	terrain := e.world.Terrain
	boats := make(map[core.TileIndex]core.Owner, e.boats.Len())
	for _, b := range e.boats.Boats() {
		boats[b.Position()] = b.Owner
	}

	var sb strings.Builder
	sb.Grow((terrain.W*10 + 1) * (terrain.H + 2))
	fmt.Fprintf(&sb, "tick %d  phase %s\n", e.tick, e.Phase())

	for y := 0; y < terrain.H; y++ {
		for x := 0; x < terrain.W; x++ {
			idx := terrain.Idx(x, y)
			owner := e.world.Grid.Owner(idx)
			symbol := rune(unclaimedSymbol)
			colorCode := common.ColorGray
			switch {
			case terrain.IsWater(idx):
				symbol, colorCode = waterSymbol, common.ColorBlue
				if o, ok := boats[idx]; ok {
					symbol, colorCode = boatSymbol, common.PlayerColor(int(o))
				}
			case owner.IsPlayer():
				symbol = rune(playerSymbols[int(owner)%len(playerSymbols)])
				colorCode = common.PlayerColor(int(owner))
			}
			if color {
				sb.WriteString(colorCode)
				sb.WriteRune(symbol)
				sb.WriteString(common.ColorReset)
			} else {
				sb.WriteRune(symbol)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
