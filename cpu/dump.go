package cpu

import "fmt"

// DumpState renders one node's registers, mode and next instruction as
// plain text, for a terminal front-end or test failure message to print
// verbatim. The engine itself never writes to stdout.
func (c *Cpu) DumpState() string {
	next := "  next instruction> (halted: empty program)"
	if c.exe.Len() > 0 {
		insn := c.exe.InstructionAt(c.pc)
		next = fmt.Sprintf("  next instruction> %d: %s", c.CurrentLine(), insn.String())
	}

	return fmt.Sprintf("%s\n  acc> %d  bak> %d  mode> %s  last> %s",
		next, c.acc, c.bak, c.mode.String(), c.last.String())
}
