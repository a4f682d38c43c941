// Package display drives the 4x20 character display of the alarm clock.
package display

const (
	Rows    = 4
	Columns = 20
)

// Display is a character display with a switchable backlight.
type Display interface {
	Clear()
	PutStr(string)
	MoveTo(col, row int)
	BacklightOn()
	BacklightOff()
	Backlight() bool
}
