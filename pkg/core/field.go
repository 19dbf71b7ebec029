// pkg/core/field.go
package core

import "fmt"

// FieldPosition is a point in field-relative coordinates, in feet.
// X is lateral (positive toward right field), Y is depth (positive toward
// center field from home plate), Z is height above the playing surface.
type FieldPosition struct {
	X float64
	Y float64
	Z float64
}

// Base identifies one of the four bases by label.
type Base string

const (
	BaseHome   Base = "home"
	BaseFirst  Base = "first"
	BaseSecond Base = "second"
	BaseThird  Base = "third"
)

// baseOrder maps each base to its position in the running order.
// Home is both origin (0) and scoring target (4); NextBase disambiguates.
var baseOrder = map[Base]int{
	BaseHome:   0,
	BaseFirst:  1,
	BaseSecond: 2,
	BaseThird:  3,
}

// Valid reports whether b is one of the four defined bases.
func (b Base) Valid() bool {
	_, ok := baseOrder[b]
	return ok
}

// Order returns the base's position in the running order, home = 0.
func (b Base) Order() int {
	return baseOrder[b]
}

// NextBase returns the base a runner on b advances to. A runner on third
// advances to home (scores).
func (b Base) NextBase() (Base, error) {
	switch b {
	case BaseHome:
		return BaseFirst, nil
	case BaseFirst:
		return BaseSecond, nil
	case BaseSecond:
		return BaseThird, nil
	case BaseThird:
		return BaseHome, nil
	default:
		return "", fmt.Errorf("no base follows %q", b)
	}
}

// BasesAhead returns the bases from b exclusive up to and including home,
// in running order. A runner on third gets just home.
func (b Base) BasesAhead() []Base {
	switch b {
	case BaseHome:
		return []Base{BaseFirst, BaseSecond, BaseThird, BaseHome}
	case BaseFirst:
		return []Base{BaseSecond, BaseThird, BaseHome}
	case BaseSecond:
		return []Base{BaseThird, BaseHome}
	case BaseThird:
		return []Base{BaseHome}
	default:
		return nil
	}
}

// DefensivePosition identifies a fielder's assignment.
type DefensivePosition string

const (
	Pitcher     DefensivePosition = "P"
	Catcher     DefensivePosition = "C"
	FirstBase   DefensivePosition = "1B"
	SecondBase  DefensivePosition = "2B"
	ThirdBase   DefensivePosition = "3B"
	Shortstop   DefensivePosition = "SS"
	LeftField   DefensivePosition = "LF"
	CenterField DefensivePosition = "CF"
	RightField  DefensivePosition = "RF"
)

// Infield reports whether the position is an infield assignment,
// pitcher and catcher included.
func (p DefensivePosition) Infield() bool {
	switch p {
	case Pitcher, Catcher, FirstBase, SecondBase, ThirdBase, Shortstop:
		return true
	default:
		return false
	}
}
