// Package weight models the two-dimensional execution cost used to bound blocks and
// delivery batches: reference time in picoseconds and proof size in bytes.
package weight

import (
	"errors"
	"fmt"
	"math"
)

var ErrBudgetExhausted = errors.New("weight budget exhausted")

// Weight is a (ref time, proof size) pair. Arithmetic saturates instead of wrapping.
type Weight struct {
	RefTime   uint64 `json:"refTime" mapstructure:"RefTime"`
	ProofSize uint64 `json:"proofSize" mapstructure:"ProofSize"`
}

// Zero is the empty weight
var Zero = Weight{}

// Max is the weight no other weight exceeds
var Max = Weight{RefTime: math.MaxUint64, ProofSize: math.MaxUint64}

func New(refTime, proofSize uint64) Weight {
	return Weight{RefTime: refTime, ProofSize: proofSize}
}

func FromRefTime(refTime uint64) Weight {
	return Weight{RefTime: refTime}
}

func (w Weight) Add(o Weight) Weight {
	return Weight{RefTime: satAdd(w.RefTime, o.RefTime), ProofSize: satAdd(w.ProofSize, o.ProofSize)}
}

func (w Weight) Sub(o Weight) Weight {
	return Weight{RefTime: satSub(w.RefTime, o.RefTime), ProofSize: satSub(w.ProofSize, o.ProofSize)}
}

func (w Weight) Mul(n uint64) Weight {
	return Weight{RefTime: satMul(w.RefTime, n), ProofSize: satMul(w.ProofSize, n)}
}

func (w Weight) Div(n uint64) Weight {
	if n == 0 {
		return Max
	}
	return Weight{RefTime: w.RefTime / n, ProofSize: w.ProofSize / n}
}

// AllLTE is true when both components are less than or equal to o's
func (w Weight) AllLTE(o Weight) bool {
	return w.RefTime <= o.RefTime && w.ProofSize <= o.ProofSize
}

// AnyGT is true when at least one component is greater than o's
func (w Weight) AnyGT(o Weight) bool {
	return !w.AllLTE(o)
}

// Min returns the smallest of both weights in each dimension
func Min(a, b Weight) Weight {
	if b.RefTime < a.RefTime {
		a.RefTime = b.RefTime
	}
	if b.ProofSize < a.ProofSize {
		a.ProofSize = b.ProofSize
	}
	return a
}

func (w Weight) IsZero() bool {
	return w == Zero
}

func (w Weight) String() string {
	return fmt.Sprintf("{refTime: %d, proofSize: %d}", w.RefTime, w.ProofSize)
}

// Budget is an explicit allowance that is decremented as work is charged against it
type Budget struct {
	remaining Weight
	consumed  Weight
}

func NewBudget(limit Weight) *Budget {
	return &Budget{remaining: limit}
}

// Charge consumes w from the budget. When w does not fit nothing is consumed.
func (b *Budget) Charge(w Weight) error {
	if !w.AllLTE(b.remaining) {
		return fmt.Errorf("%w: need %s, remaining %s", ErrBudgetExhausted, w, b.remaining)
	}
	b.remaining = b.remaining.Sub(w)
	b.consumed = b.consumed.Add(w)
	return nil
}

// Consume records work that had to be done whatever the budget, such as the mandatory
// bookkeeping of a block. The remaining weight saturates at zero.
func (b *Budget) Consume(w Weight) {
	b.remaining = b.remaining.Sub(w)
	b.consumed = b.consumed.Add(w)
}

func (b *Budget) Remaining() Weight {
	return b.remaining
}

func (b *Budget) Consumed() Weight {
	return b.consumed
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}
