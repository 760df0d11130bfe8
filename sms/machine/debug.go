package machine

import "github.com/mattias800/ai-sms-gpt5-sub002/sms/memory"

// Hooks are the optional debug/trace callbacks (§6 "Debug/trace
// interface"). The core must operate correctly with all hooks absent;
// none of these are consulted unless set.
type Hooks struct {
	// OnCycle is called with the running total of CPU cycles after every
	// instruction.
	OnCycle func(totalCycles uint64)

	// OnIORead, if it returns ok=true, overrides the bus's I/O read
	// entirely; otherwise the read proceeds normally.
	OnIORead func(port uint16, pc uint16) (value uint8, ok bool)

	// OnIOWrite observes (but cannot veto) an I/O write.
	OnIOWrite func(port uint16, value uint8, pc uint16)

	// OnTrace receives free-form diagnostic events, e.g. instruction
	// boundaries or interrupt acceptance.
	OnTrace func(event string)
}

// debugBus wraps the real Bus so I/O accesses can be observed or
// overridden without threading hook state through the CPU package,
// matching §9's "explicit observer interface, not CPU-embedded hooks."
type debugBus struct {
	inner *memory.Bus
	m     *Machine
}

func (d *debugBus) Read(address uint16) uint8  { return d.inner.Read(address) }
func (d *debugBus) Write(address uint16, v uint8) { d.inner.Write(address, v) }

func (d *debugBus) In(port uint16) uint8 {
	pc := d.m.CPU.Regs.PC
	if d.m.hooks.OnIORead != nil {
		if v, ok := d.m.hooks.OnIORead(port, pc); ok {
			return v
		}
	}
	return d.inner.In(port)
}

func (d *debugBus) Out(port uint16, value uint8) {
	pc := d.m.CPU.Regs.PC
	if d.m.hooks.OnIOWrite != nil {
		d.m.hooks.OnIOWrite(port, value, pc)
	}
	d.inner.Out(port, value)
}
