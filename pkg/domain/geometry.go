package domain

import "fmt"

// Point is the rendered position of an element's top-left corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Dimension is the rendered size of an element.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimension) String() string {
	return fmt.Sprintf("(%d, %d)", d.Width, d.Height)
}
