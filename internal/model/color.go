package model

import "fmt"

// Color identifies a seat. The numeric order is the ring (turn) order.
type Color int32

const (
	Red Color = iota
	Blue
	Green
	Yellow
)

const ColorCount = 4

var AllColors = [ColorCount]Color{Red, Blue, Green, Yellow}

var colorNames = [ColorCount]string{"red", "blue", "green", "yellow"}

func (c Color) Valid() bool { return c >= Red && c <= Yellow }

func (c Color) String() string {
	if c.Valid() {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", int32(c))
}

// ParseColor is the inverse of Color.String.
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return 0, ErrInvalidColor
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidColor
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
