package seqf1

// countOverlap compares two token sequences as multisets. Each shared value
// contributes min(count in predicted, count in target) true positives.
func countOverlap(predicted, target []int64) Counts {
	remaining := make(map[int64]int, len(target))
	for _, tok := range target {
		remaining[tok]++
	}

	tp := 0
	for _, tok := range predicted {
		if remaining[tok] > 0 {
			remaining[tok]--
			tp++
		}
	}

	return Counts{
		TruePositive:  tp,
		FalsePositive: len(predicted) - tp,
		FalseNegative: len(target) - tp,
	}
}
