package report

// DefaultBlockThreshold is the report count at which a technician is blocked.
const DefaultBlockThreshold = 5

// autoBlockDecision returns the decision applied inside the submit
// transaction: the new report raises the total by one, and the technician is
// blocked once the total reaches threshold.
func autoBlockDecision(threshold int) func(existing int) (int, bool) {
	if threshold <= 0 {
		threshold = DefaultBlockThreshold
	}
	return func(existing int) (int, bool) {
		total := existing + 1
		return total, total >= threshold
	}
}
