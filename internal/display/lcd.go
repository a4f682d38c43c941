package display

import (
	"fmt"
	"log/slog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"sync"
	"time"
)

// PCF8574 backpack pins
const (
	maskRS        = 0x01
	maskE         = 0x04
	maskBacklight = 0x08
)

// HD44780 commands
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06
	cmdDisplayOff  = 0x08
	cmdDisplayOn   = 0x0C
	cmdFunctionSet = 0x28
	cmdSetDDRAM    = 0x80
)

var _ Display = &LCD{}

// LCD is an HD44780 character display, connected through a PCF8574 I2C backpack.
type LCD struct {
	dev       *i2c.Dev
	logger    *slog.Logger
	lock      sync.Mutex
	col, row  int
	backlight bool
	failing   bool
}

// OpenLCD opens the named I2C bus and initializes the display at addr. The returned close function closes the bus.
func OpenLCD(busName string, addr uint16, logger *slog.Logger) (*LCD, func() error, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("i2c: %w", err)
	}
	lcd, err := NewLCD(bus, addr, logger)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	return lcd, bus.Close, nil
}

// NewLCD initializes the display at addr on bus, in 4-bit mode, cleared and with the backlight on.
func NewLCD(bus i2c.Bus, addr uint16, logger *slog.Logger) (*LCD, error) {
	l := LCD{
		dev:       &i2c.Dev{Bus: bus, Addr: addr},
		logger:    logger,
		backlight: true,
	}
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("lcd init: %w", err)
	}
	return &l, nil
}

func (l *LCD) init() error {
	time.Sleep(20 * time.Millisecond)
	if err := l.tx(0); err != nil {
		return err
	}
	// three times 8-bit mode, then switch to 4-bit mode
	for _, nibble := range []byte{0x30, 0x30, 0x30, 0x20} {
		if err := l.write4(nibble); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOff, cmdClear, cmdEntryMode, cmdDisplayOn} {
		if err := l.write(cmd, 0); err != nil {
			return err
		}
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (l *LCD) Clear() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.check(l.write(cmdClear, 0))
	time.Sleep(2 * time.Millisecond)
	l.col, l.row = 0, 0
}

// PutStr writes text at the cursor. Text that reaches the end of a row continues on the next row.
func (l *LCD) PutStr(text string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	for i := range len(text) {
		if text[i] != '\n' {
			if err := l.write(text[i], maskRS); err != nil {
				l.check(err)
				return
			}
			l.col++
		}
		if text[i] == '\n' || l.col >= Columns {
			l.col, l.row = 0, (l.row+1)%Rows
			l.check(l.moveTo(l.col, l.row))
		}
	}
	l.check(nil)
}

func (l *LCD) MoveTo(col, row int) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.col = min(max(col, 0), Columns-1)
	l.row = min(max(row, 0), Rows-1)
	l.check(l.moveTo(l.col, l.row))
}

func (l *LCD) moveTo(col, row int) error {
	addr := col & 0x3f
	if row&1 != 0 {
		addr += 0x40
	}
	if row&2 != 0 {
		addr += Columns
	}
	return l.write(cmdSetDDRAM|byte(addr), 0)
}

func (l *LCD) BacklightOn() {
	l.setBacklight(true)
}

func (l *LCD) BacklightOff() {
	l.setBacklight(false)
}

func (l *LCD) setBacklight(on bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.backlight = on
	l.check(l.tx(0))
}

func (l *LCD) Backlight() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.backlight
}

// write sends one byte as two nibbles, high nibble first.
func (l *LCD) write(b byte, flags byte) error {
	if err := l.write4(b&0xf0 | flags); err != nil {
		return err
	}
	return l.write4(b<<4 | flags)
}

// write4 latches the upper four bits of b by pulsing the enable line.
func (l *LCD) write4(b byte) error {
	for _, v := range []byte{b, b | maskE, b &^ maskE} {
		if err := l.tx(v); err != nil {
			return err
		}
	}
	return nil
}

func (l *LCD) tx(b byte) error {
	if l.backlight {
		b |= maskBacklight
	}
	return l.dev.Tx([]byte{b}, nil)
}

// check logs a failure once, until the display starts working again.
func (l *LCD) check(err error) {
	switch {
	case err != nil && !l.failing:
		l.logger.Error("lcd write failed", "err", err)
		l.failing = true
	case err == nil && l.failing:
		l.logger.Info("lcd recovered")
		l.failing = false
	}
}
