package types

import (
	"sort"

	"cosmossdk.io/math"
)

// Weighting divides the per-block emission across pools. Implementations
// must return one share per weight and the shares must sum to total.
type Weighting interface {
	Shares(total math.Int, weights []uint64) ([]math.Int, error)
}

// ProportionalWeighting splits the emission by reward weight using the
// largest remainder method.
type ProportionalWeighting struct{}

var _ Weighting = ProportionalWeighting{}

// Shares implements Weighting. With all weights zero nothing is emitted.
func (ProportionalWeighting) Shares(total math.Int, weights []uint64) ([]math.Int, error) {
	shares := make([]math.Int, len(weights))
	sum := math.ZeroInt()
	for i, w := range weights {
		shares[i] = math.ZeroInt()
		sum = sum.Add(math.NewIntFromUint64(w))
	}
	if sum.IsZero() || total.IsZero() {
		return shares, nil
	}

	type remainder struct {
		idx int
		rem math.Int
	}
	rems := make([]remainder, 0, len(weights))
	allocated := math.ZeroInt()
	for i, w := range weights {
		num, err := total.SafeMul(math.NewIntFromUint64(w))
		if err != nil {
			return nil, ErrRewardOverflow
		}
		shares[i] = num.Quo(sum)
		allocated = allocated.Add(shares[i])
		rems = append(rems, remainder{idx: i, rem: num.Mod(sum)})
	}

	// Hand out the leftover units to the largest remainders, lowest index first on ties
	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].rem.GT(rems[b].rem)
	})
	left := total.Sub(allocated).Int64()
	for i := int64(0); i < left; i++ {
		j := rems[i].idx
		shares[j] = shares[j].AddRaw(1)
	}
	return shares, nil
}
