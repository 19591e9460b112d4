package tiles

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/f3rmion/tilesmith/internal/sprite"
)

// Direction is one of the 8 neighbours of a cell, clockwise from Top.
type Direction int

const (
	Top Direction = iota
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
	TopLeft
)

// Directions lists all neighbours in slot order.
var Directions = [8]Direction{Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left, TopLeft}

var directionNames = [8]string{"top", "top_right", "right", "bottom_right", "bottom", "bottom_left", "left", "top_left"}

// Y grows upwards.
var directionOffsets = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

// Offset returns the cell offset of the neighbour.
func (d Direction) Offset() (dx, dy int) {
	o := directionOffsets[d&7]
	return o[0], o[1]
}

// Bit returns the configuration bit for d.
func (d Direction) Bit() Configuration {
	return 1 << uint(d&7)
}

func (d Direction) String() string {
	if d < Top || d > TopLeft {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts names like "top_right" or "top-right".
func ParseDirection(s string) (Direction, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Configuration is the 8-bit set of connected neighbours of a cell. A
// diagonal bit is only meaningful when both adjacent edges are set.
type Configuration uint8

// NewConfiguration builds a normalized configuration.
func NewConfiguration(dirs ...Direction) Configuration {
	var c Configuration
	for _, d := range dirs {
		c |= d.Bit()
	}
	return c.Normalize()
}

// Normalize clears diagonal bits whose adjacent edges are not both set.
func (c Configuration) Normalize() Configuration {
	if !c.Has(Top) {
		c &^= TopLeft.Bit() | TopRight.Bit()
	}
	if !c.Has(Bottom) {
		c &^= BottomLeft.Bit() | BottomRight.Bit()
	}
	if !c.Has(Right) {
		c &^= TopRight.Bit() | BottomRight.Bit()
	}
	if !c.Has(Left) {
		c &^= TopLeft.Bit() | BottomLeft.Bit()
	}
	return c
}

// Has reports whether the neighbour in direction d is set.
func (c Configuration) Has(d Direction) bool {
	return c&d.Bit() != 0
}

// Contains reports whether every bit of mask is set in c.
func (c Configuration) Contains(mask Configuration) bool {
	return c&mask == mask
}

// Distance counts the differing bits.
func (c Configuration) Distance(other Configuration) int {
	return bits.OnesCount8(uint8(c ^ other))
}

// Directions lists the set neighbours in slot order.
func (c Configuration) Directions() []Direction {
	var out []Direction
	for _, d := range Directions {
		if c.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (c Configuration) String() string {
	if c == 0 {
		return "none"
	}
	names := make([]string, 0, 8)
	for _, d := range c.Directions() {
		names = append(names, d.String())
	}
	return strings.Join(names, "|")
}

// ConfigurationAt inspects the 8 neighbours of pos. A neighbour counts as
// connected when it is self or the group's invisible sibling.
func ConfigurationAt(tm Tilemap, pos sprite.Position, self, invisible TileID) Configuration {
	var c Configuration
	for _, d := range Directions {
		dx, dy := d.Offset()
		n := tm.Tile(pos.Add(dx, dy))
		if n == self || (invisible != NoTile && n == invisible) {
			c |= d.Bit()
		}
	}
	return c.Normalize()
}

// RefreshArea returns pos and its 8 neighbours. After changing the tile at
// pos a host must re-query all of them.
func RefreshArea(pos sprite.Position) [9]sprite.Position {
	area := [9]sprite.Position{pos}
	for i, d := range Directions {
		dx, dy := d.Offset()
		area[i+1] = pos.Add(dx, dy)
	}
	return area
}
