package display

// MaskWidth is the widest overlay row a mask byte can describe.
const MaskWidth = 8

// MaskBits expands the low width bits of mask into column flags. Index 0 is
// the most significant of those bits, i.e. the leftmost column.
//
// width must be in [0, MaskWidth].
func MaskBits(mask uint8, width int) [MaskWidth]bool {
	if width < 0 || width > MaskWidth {
		panic("display: mask width out of range")
	}

	var bits [MaskWidth]bool
	for i := width - 1; i >= 0; i-- {
		bits[i] = mask&1 == 1
		mask >>= 1
	}
	return bits
}
