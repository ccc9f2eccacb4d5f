package committees

// NotarizationThreshold returns the number of distinct votes a block needs to
// become notarized in a committee of the given size: ⌈2n/3⌉.
func NotarizationThreshold(committeeSize uint) uint {
	// ceil(2n/3) in integer arithmetic
	return (2*committeeSize + 2) / 3
}

// MaxFaulty returns the largest number of Byzantine members f a committee of
// the given size tolerates, such that f < n/3.
func MaxFaulty(committeeSize uint) uint {
	if committeeSize == 0 {
		return 0
	}
	return (committeeSize - 1) / 3
}
