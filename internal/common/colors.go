package common

// ANSI escape sequences used by the terminal board dump
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// PlayerColors cycles by player id. Blue is left out so owned tiles never
// read as water.
var PlayerColors = []string{ColorRed, ColorGreen, ColorYellow, ColorPurple, ColorCyan}

// PlayerColor maps a player id onto the palette; negative ids get white.
func PlayerColor(playerID int) string {
	if playerID < 0 {
		return ColorWhite
	}
	return PlayerColors[playerID%len(PlayerColors)]
}
