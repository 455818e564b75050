package types

// EligibleBlocks returns the number of reward-eligible blocks between a
// checkpoint and the current block, clipped to the pool window
// [startBlock, endBlock] and floored at zero.
func EligibleBlocks(lastAccrual, current, startBlock, endBlock int64) int64 {
	from := lastAccrual
	if startBlock > from {
		from = startBlock
	}
	to := current
	if endBlock < to {
		to = endBlock
	}
	if to <= from {
		return 0
	}
	return to - from
}
