package hardware

import "sync/atomic"

var _ Button = &VirtualButton{}

// VirtualButton is a Button without hardware. Press registers a single press, reported by the next call to Pressed.
type VirtualButton struct {
	held    atomic.Bool
	pressed atomic.Bool
}

func (b *VirtualButton) Press() {
	b.pressed.Store(true)
}

// Hold keeps the button pressed until Release is called.
func (b *VirtualButton) Hold() {
	b.held.Store(true)
}

func (b *VirtualButton) Release() {
	b.held.Store(false)
}

func (b *VirtualButton) Pressed() bool {
	return b.pressed.Swap(false) || b.held.Load()
}

var _ Output = &VirtualOutput{}

// VirtualOutput is an Output without hardware.
type VirtualOutput struct {
	on atomic.Bool
}

func (b *VirtualOutput) On() {
	b.on.Store(true)
}

func (b *VirtualOutput) Off() {
	b.on.Store(false)
}

func (b *VirtualOutput) IsOn() bool {
	return b.on.Load()
}
