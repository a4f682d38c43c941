// Package hardware provides the alarm clock's push button, buzzer and status LED.
package hardware

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync/atomic"
)

// A Button reports whether it is currently pressed.
type Button interface {
	Pressed() bool
}

// An Output, like the buzzer or the status LED, can be switched on and off.
type Output interface {
	On()
	Off()
	IsOn() bool
}

// Init loads the host's drivers. It must be called before any GPIO pin or I2C bus is opened.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}

var _ Button = GPIOButton{}

// GPIOButton is a push button connected between a GPIO pin and ground. The pin's pull-up keeps it high until pressed.
type GPIOButton struct {
	pin gpio.PinIO
}

// NewGPIOButton configures the named pin as an input with pull-up.
func NewGPIOButton(name string) (GPIOButton, error) {
	pin, err := lookup(name)
	if err == nil {
		err = pin.In(gpio.PullUp, gpio.NoEdge)
	}
	if err != nil {
		return GPIOButton{}, fmt.Errorf("button: %w", err)
	}
	return GPIOButton{pin: pin}, nil
}

func (b GPIOButton) Pressed() bool {
	return b.pin.Read() == gpio.Low
}

var _ Output = &GPIOOutput{}

// GPIOOutput drives an active buzzer or a LED connected to a GPIO pin.
type GPIOOutput struct {
	pin gpio.PinIO
	on  atomic.Bool
}

// NewGPIOOutput configures the named pin as an output and switches it off.
func NewGPIOOutput(name string) (*GPIOOutput, error) {
	pin, err := lookup(name)
	if err == nil {
		err = pin.Out(gpio.Low)
	}
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return &GPIOOutput{pin: pin}, nil
}

func (b *GPIOOutput) On() {
	if b.pin.Out(gpio.High) == nil {
		b.on.Store(true)
	}
}

func (b *GPIOOutput) Off() {
	if b.pin.Out(gpio.Low) == nil {
		b.on.Store(false)
	}
}

func (b *GPIOOutput) IsOn() bool {
	return b.on.Load()
}

func lookup(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return pin, nil
}
