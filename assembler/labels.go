package assembler

// labelTable maps a label name to the instruction address it names.
type labelTable map[string]uint32
