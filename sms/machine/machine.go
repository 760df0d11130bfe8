// Package machine wires the CPU, Bus, VDP, PSG and Controllers into a
// runnable SMS, mirroring jeebie's Emulator in core.go: one root struct
// constructed from a config, a cycle-driven run loop, and accessors to
// each component for tests and front ends (§4.5 "Machine").
package machine

import (
	"fmt"
	"log/slog"

	"github.com/mattias800/ai-sms-gpt5-sub002/sms/audio"
	"github.com/mattias800/ai-sms-gpt5-sub002/sms/controller"
	"github.com/mattias800/ai-sms-gpt5-sub002/sms/cpu"
	"github.com/mattias800/ai-sms-gpt5-sub002/sms/memory"
	"github.com/mattias800/ai-sms-gpt5-sub002/sms/video"
)

// ConfigError reports a Machine construction failure (§7 "Configuration
// errors"). The Machine never carries partially constructed state.
type ConfigError struct {
	Kind string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("sms/machine: %s", e.Kind) }

// Config carries everything needed to build a runnable Machine.
type Config struct {
	Cartridge    []byte
	BIOS         []byte
	AllowCartRAM bool

	// UseManualInit approximates post-BIOS hardware state when no BIOS
	// image is supplied.
	UseManualInit bool

	// EnableWaitStates turns on the SMS wait-state model (§4.5).
	EnableWaitStates    bool
	WaitStatePenalty    int // default 4 when EnableWaitStates and this is 0
	IncludeWaitInCycles bool

	PSGStrictRouting bool

	Hooks Hooks
}

// Machine is the fully wired system: CPU, Bus, VDP, PSG, Controllers.
type Machine struct {
	CPU         *cpu.CPU
	Bus         *memory.Bus
	VDP         *video.VDP
	PSG         *audio.PSG
	Controllers *controller.Controllers

	hooks Hooks

	instructionCount uint64
	cycleCount       uint64
}

// New constructs a Machine from Config, wiring the CPU's per-cycle
// callback so every instruction's cycle count advances the VDP and PSG,
// and so a VDP IRQ assertion reaches the CPU's interrupt sampling.
func New(cfg Config) (*Machine, error) {
	bus, err := memory.New(memory.Config{
		Cartridge:    cfg.Cartridge,
		BIOS:         cfg.BIOS,
		AllowCartRAM: cfg.AllowCartRAM,
	})
	if err != nil {
		return nil, &ConfigError{Kind: err.Error()}
	}

	vdp := video.New()
	psg := audio.New()
	psg.StrictRouting = cfg.PSGStrictRouting
	ctrl := controller.New()

	bus.VDP = vdp
	bus.PSG = psg
	bus.Controllers = ctrl

	m := &Machine{
		Bus:         bus,
		VDP:         vdp,
		PSG:         psg,
		Controllers: ctrl,
		hooks:       cfg.Hooks,
	}

	var ioBusView cpu.Bus = bus
	if cfg.Hooks.OnIORead != nil || cfg.Hooks.OnIOWrite != nil {
		ioBusView = &debugBus{inner: bus, m: m}
	}

	m.CPU = cpu.New(ioBusView, m.onCycle, bus.IRQPending, nil)

	if cfg.EnableWaitStates {
		penalty := cfg.WaitStatePenalty
		if penalty == 0 {
			penalty = 4
		}
		m.CPU.SetWaitStateHook(func(port uint16, isWrite bool) int {
			low6 := uint8(port) & 0x3F
			if low6 == 0x3E || low6 == 0x3F {
				return penalty
			}
			return 0
		}, cfg.IncludeWaitInCycles)
	}

	m.CPU.Reset()
	bus.ResetMapper()

	if len(cfg.BIOS) == 0 && cfg.UseManualInit {
		m.applyManualInit()
	}

	slog.Debug("machine constructed", "manual_init", cfg.UseManualInit, "wait_states", cfg.EnableWaitStates)

	return m, nil
}

// applyManualInit pre-programs a minimal VDP register set and enables
// interrupts, approximating the state the SMS BIOS would leave behind
// (§4.5 "Manual init").
func (m *Machine) applyManualInit() {
	m.VDP.SetRegister(0, 0x36) // mode 4, line-IRQ enabled
	m.VDP.SetRegister(1, 0xE0) // display on, VBlank IRQ enabled, sprites 8x8
	m.VDP.SetRegister(2, 0xFF)
	m.VDP.SetRegister(5, 0xFF)
	m.VDP.SetRegister(10, 0xFF)

	m.CPU.Regs.IFF1 = true
	m.CPU.Regs.IFF2 = true
	m.CPU.Regs.IM = 1
}

func (m *Machine) onCycle(cycles int) {
	m.VDP.Tick(cycles)
	m.PSG.Tick(cycles)
	m.cycleCount += uint64(cycles)
	if m.hooks.OnCycle != nil {
		m.hooks.OnCycle(m.cycleCount)
	}
}

// Pause triggers the SMS Pause button, wired to the Z80's NMI line
// (supplemental to the BIOS/cartridge interrupt model: real SMS hardware
// ties the Pause button directly to /NMI).
func (m *Machine) Pause() {
	m.CPU.TriggerNMI()
}

// RunCycles executes whole instructions until at least n cycles have
// elapsed, returning the actual number of cycles executed (which may
// exceed n by the last instruction's cost).
func (m *Machine) RunCycles(n int) int {
	total := 0
	for total < n {
		cycles, irqAccepted := m.CPU.Step()
		total += cycles
		m.instructionCount++
		if m.hooks.OnTrace != nil {
			if irqAccepted {
				m.hooks.OnTrace("irq_accepted")
			} else {
				m.hooks.OnTrace("instruction")
			}
		}
	}
	return total
}

// InstructionCount returns the number of instructions executed so far.
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }

// CycleCount returns the number of CPU cycles elapsed so far.
func (m *Machine) CycleCount() uint64 { return m.cycleCount }

// RenderFrame produces the current 256x192 RGB frame (§6 "Video output").
func (m *Machine) RenderFrame() []uint8 { return m.VDP.RenderFrame() }

// GetAudioSample returns one signed PSG sample (§6 "Audio output").
func (m *Machine) GetAudioSample() int16 { return m.PSG.GetSample() }
