package core

// TileSet is an insertion-ordered set of tiles with O(1) add, remove and lookup.
// Iteration order only depends on the sequence of operations, which keeps
// simulations deterministic where a Go map would not.
type TileSet struct {
	items []TileIndex
	pos   map[TileIndex]int
}

func NewTileSet() *TileSet {
	return &TileSet{pos: make(map[TileIndex]int)}
}

// Add inserts t and reports whether it was absent
func (s *TileSet) Add(t TileIndex) bool {
	if _, ok := s.pos[t]; ok {
		return false
	}
	s.pos[t] = len(s.items)
	s.items = append(s.items, t)
	return true
}

// Remove deletes t and reports whether it was present.
// The last element takes the removed element's slot.
func (s *TileSet) Remove(t TileIndex) bool {
	i, ok := s.pos[t]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.pos[moved] = i
	}
	s.items = s.items[:last]
	delete(s.pos, t)
	return true
}

func (s *TileSet) Has(t TileIndex) bool {
	_, ok := s.pos[t]
	return ok
}

func (s *TileSet) Len() int { return len(s.items) }

// Items returns a read-only view of the members. Do not hold it across mutations.
func (s *TileSet) Items() []TileIndex { return s.items }

// Snapshot returns a copy of the members
func (s *TileSet) Snapshot() []TileIndex {
	out := make([]TileIndex, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the set
func (s *TileSet) Clear() {
	s.items = s.items[:0]
	clear(s.pos)
}
