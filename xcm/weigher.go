package xcm

import (
	"fmt"

	"github.com/0xPolygon/lanebridge/weight"
)

// Weigher estimates the execution weight of programs from the instruction benchmarks
type Weigher struct {
	// MaxInstructions bounds the number of instructions weighed, nested ones included
	MaxInstructions int
}

func NewWeigher() *Weigher {
	return &Weigher{MaxInstructions: MaxInstructions}
}

// Weigh returns the weight of executing p on this chain
func (w *Weigher) Weigh(p Program) (weight.Weight, error) {
	count := 0
	return w.weigh(p, &count)
}

func (w *Weigher) weigh(p Program, count *int) (weight.Weight, error) {
	total := weight.Zero
	for _, instruction := range p {
		*count++
		if *count > w.MaxInstructions {
			return weight.Zero, fmt.Errorf("%w: weighing more than %d instructions", ErrTooManyInstructions, w.MaxInstructions)
		}
		iw, err := w.instructionWeight(instruction)
		if err != nil {
			return weight.Zero, err
		}
		total = total.Add(iw)
	}
	return total, nil
}

func (w *Weigher) instructionWeight(instruction Instruction) (weight.Weight, error) {
	switch i := instruction.(type) {
	case WithdrawAsset:
		return weight.WithdrawAsset.Mul(uint64(len(i.Assets))), nil
	case ReserveAssetDeposited:
		return weight.ReserveAssetDeposited.Mul(uint64(len(i.Assets))), nil
	case DepositAsset:
		return weight.DepositAsset.Mul(uint64(maxInt(depositedAssets(i.Assets), 1))), nil
	case ClearOrigin:
		return weight.ClearOrigin, nil
	case BuyExecution:
		return weight.BuyExecution, nil
	case UnpaidExecution:
		return weight.UnpaidExecution, nil
	case ExportMessage:
		// the inner program runs on the remote chain, here only its size matters
		inner, err := i.Xcm.Bytes()
		if err != nil {
			return weight.Zero, err
		}
		return weight.ExportMessage(uint64(len(inner))), nil
	case SetTopic:
		return weight.SetTopic, nil
	case ClearTopic:
		return weight.ClearTopic, nil
	case Transact:
		return weight.Transact.Add(i.RequireWeightAtMost), nil
	case UniversalOrigin:
		return weight.UniversalOrigin, nil
	case DescendOrigin:
		return weight.DescendOrigin, nil
	case Trap:
		return weight.Trap, nil
	default:
		return weight.Zero, fmt.Errorf("no weight for instruction %T", instruction)
	}
}

func depositedAssets(f AssetFilter) int {
	switch f.Kind {
	case FilterDefinite:
		return len(f.Assets)
	case FilterAllCounted:
		return int(f.Count)
	default:
		return MaxAssets
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
