package cpu

// registerCB fills the 256-entry CB-prefixed table: eight rotate/shift
// groups over the eight operand sources (0x00-0x3F), then BIT (0x40-0x7F),
// RES (0x80-0xBF) and SET (0xC0-0xFF), each over all eight bit positions
// and eight operand sources.
func registerCB() {
	shifts := []func(c *CPU, v uint8) uint8{
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}
	for group := uint8(0); group < 8; group++ {
		for src := uint8(0); src < 8; src++ {
			group, src := group, src
			op := group*8 + src
			cbTable[op] = instruction{"CB shift", func(c *CPU) int {
				setReg8(c, src, shifts[group](c, getReg8(c, src)))
				return 4 + reg8Cycles(src, 0, 8)
			}}
		}
	}

	for bitN := uint8(0); bitN < 8; bitN++ {
		for src := uint8(0); src < 8; src++ {
			bitN, src := bitN, src
			op := 0x40 + bitN*8 + src
			cbTable[op] = instruction{"BIT n,r", func(c *CPU) int {
				c.bit(getReg8(c, src), bitN)
				return 4 + reg8Cycles(src, 0, 4)
			}}
		}
	}

	for bitN := uint8(0); bitN < 8; bitN++ {
		for src := uint8(0); src < 8; src++ {
			bitN, src := bitN, src
			op := 0x80 + bitN*8 + src
			cbTable[op] = instruction{"RES n,r", func(c *CPU) int {
				setReg8(c, src, resBit(getReg8(c, src), bitN))
				return 4 + reg8Cycles(src, 0, 8)
			}}
		}
	}

	for bitN := uint8(0); bitN < 8; bitN++ {
		for src := uint8(0); src < 8; src++ {
			bitN, src := bitN, src
			op := 0xC0 + bitN*8 + src
			cbTable[op] = instruction{"SET n,r", func(c *CPU) int {
				setReg8(c, src, setBit(getReg8(c, src), bitN))
				return 4 + reg8Cycles(src, 0, 8)
			}}
		}
	}
}
