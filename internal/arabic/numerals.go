package arabic

// maxNumber caps accumulated digit runs so long inputs cannot overflow.
const maxNumber = 1_000_000

// digitValue returns the value of an ASCII, Arabic-Indic or Extended
// Arabic-Indic (Persian) digit.
func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 0x0660 && r <= 0x0669:
		return int(r - 0x0660), true
	case r >= 0x06F0 && r <= 0x06F9:
		return int(r - 0x06F0), true
	}
	return 0, false
}

// ExtractNumbers returns every run of digits in text, in order of appearance.
// Digit systems may be mixed within a run.
func ExtractNumbers(text string) []int {
	var (
		numbers []int
		current int
		inRun   bool
	)
	for _, r := range text {
		d, ok := digitValue(r)
		if !ok {
			if inRun {
				numbers = append(numbers, current)
				current, inRun = 0, false
			}
			continue
		}
		inRun = true
		if current < maxNumber {
			current = current*10 + d
		}
	}
	if inRun {
		numbers = append(numbers, current)
	}
	return numbers
}
