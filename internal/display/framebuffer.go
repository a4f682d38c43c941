package display

import (
	"log/slog"
	"strings"
	"sync"
)

var _ Display = &Framebuffer{}

// Framebuffer is an in-memory display. It is used when running without hardware.
// If Logger is set, Flush logs the current content.
type Framebuffer struct {
	Logger    *slog.Logger
	lock      sync.RWMutex
	lines     [Rows][Columns]byte
	col, row  int
	backlight bool
}

func NewFramebuffer(logger *slog.Logger) *Framebuffer {
	f := Framebuffer{Logger: logger, backlight: true}
	f.Clear()
	return &f
}

func (f *Framebuffer) Clear() {
	f.lock.Lock()
	defer f.lock.Unlock()
	for row := range f.lines {
		for col := range f.lines[row] {
			f.lines[row][col] = ' '
		}
	}
	f.col, f.row = 0, 0
}

// PutStr writes text at the cursor. Like the LCD, text wraps to the next row and back to the top.
func (f *Framebuffer) PutStr(text string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for i := range len(text) {
		if text[i] == '\n' {
			f.col, f.row = 0, (f.row+1)%Rows
			continue
		}
		f.lines[f.row][f.col] = text[i]
		if f.col++; f.col == Columns {
			f.col, f.row = 0, (f.row+1)%Rows
		}
	}
}

func (f *Framebuffer) MoveTo(col, row int) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.col = min(max(col, 0), Columns-1)
	f.row = min(max(row, 0), Rows-1)
}

func (f *Framebuffer) BacklightOn() {
	f.setBacklight(true)
}

func (f *Framebuffer) BacklightOff() {
	f.setBacklight(false)
}

func (f *Framebuffer) setBacklight(on bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.backlight = on
}

func (f *Framebuffer) Backlight() bool {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.backlight
}

// Lines returns the current content, one string per row, trailing blanks removed.
func (f *Framebuffer) Lines() []string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	lines := make([]string, Rows)
	for row := range f.lines {
		lines[row] = strings.TrimRight(string(f.lines[row][:]), " ")
	}
	return lines
}

// Flush logs the current content.
func (f *Framebuffer) Flush() {
	if f.Logger != nil {
		f.Logger.Info("display", "lines", f.Lines(), "backlight", f.Backlight())
	}
}
