package cpu

// Bus is the CPU's non-owning view of the rest of the machine (§3
// "Ownership", §9 "Cyclic reference between CPU and devices"). The CPU
// never holds a concrete *memory.Bus; it only sees this interface, which the
// Machine satisfies at construction time, so the CPU package never imports
// the memory/video/audio packages.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	In(port uint16) uint8
	Out(port uint16, value uint8)
}
