package common

// IsValidCoordinate checks if the given coordinates are within the bounds of the map
func IsValidCoordinate(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}
