package exporter

import (
	"errors"
	"fmt"

	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/xcm"
)

var (
	ErrUnpaidNotAllowed      = fmt.Errorf("%w: origin may not use unpaid execution", xcm.ErrRejected)
	ErrMissingFee            = fmt.Errorf("%w: paid program without fee", xcm.ErrRejected)
	ErrUnexpectedInstruction = fmt.Errorf("%w: unexpected instruction", xcm.ErrRejected)
	ErrWeightLimit           = fmt.Errorf("%w: program weighs more than it bought", xcm.ErrRejected)
	ErrNoOrigin              = fmt.Errorf("%w: origin was cleared", xcm.ErrRejected)
	ErrTrapped               = fmt.Errorf("%w: trapped", xcm.ErrRejected)
)

// Execute runs a program addressed to this chain on behalf of origin. Only the shapes a
// bridge hub accepts are understood: an optional origin prefix, then either
// WithdrawAsset+BuyExecution or UnpaidExecution (trusted siblings only), then exports.
// Refusals wrap xcm.ErrRejected.
func (e *Exporter) Execute(tx *db.Tx, rec *events.Recorder, origin xcm.Location, program xcm.Program) error {
	_, err := e.execute(tx, rec, origin, program)
	return err
}

// ExecuteAndCollect is Execute returning the lane messages the program exported
func (e *Exporter) ExecuteAndCollect(
	tx *db.Tx, rec *events.Recorder, origin xcm.Location, program xcm.Program,
) ([]lane.Message, error) {
	return e.execute(tx, rec, origin, program)
}

func (e *Exporter) execute(
	tx *db.Tx, rec *events.Recorder, origin xcm.Location, program xcm.Program,
) ([]lane.Message, error) {
	w, err := e.weigher.Weigh(program)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xcm.ErrRejected, err)
	}

	current := &origin
	rest := program
prefix:
	for len(rest) > 0 {
		switch i := rest[0].(type) {
		case xcm.UniversalOrigin:
			if current == nil {
				return nil, ErrNoOrigin
			}
			gc, ok := i.Junction.(xcm.GlobalConsensus)
			if !ok || current.Parents != 0 || len(current.Interior) != 0 {
				return nil, fmt.Errorf("%w: %s can't claim universal origin %s", xcm.ErrRejected, current, i.Junction)
			}
			if network, _ := e.universal.Global(); xcm.NetworkID(gc) == network {
				return nil, fmt.Errorf("%w: universal origin of the local network", xcm.ErrRejected)
			}
			current = &xcm.Location{Parents: uint8(len(e.universal)), Interior: xcm.Junctions{gc}}
		case xcm.DescendOrigin:
			if current == nil {
				return nil, ErrNoOrigin
			}
			interior := make(xcm.Junctions, 0, len(current.Interior)+len(i.Interior))
			interior = append(interior, current.Interior...)
			interior = append(interior, i.Interior...)
			if len(interior) > xcm.MaxJunctions {
				return nil, fmt.Errorf("%w: origin deeper than %d junctions", xcm.ErrRejected, xcm.MaxJunctions)
			}
			current = &xcm.Location{Parents: current.Parents, Interior: interior}
		default:
			break prefix
		}
		rest = rest[1:]
	}
	if current == nil {
		return nil, ErrNoOrigin
	}
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: empty program", ErrUnexpectedInstruction)
	}
	switch first := rest[0].(type) {
	case xcm.WithdrawAsset:
		if len(rest) < 2 { //nolint:gomnd
			return nil, ErrMissingFee
		}
		buy, ok := rest[1].(xcm.BuyExecution)
		if !ok {
			return nil, fmt.Errorf("%w: WithdrawAsset must be followed by BuyExecution", ErrMissingFee)
		}
		if err := checkFee(first.Assets, buy); err != nil {
			return nil, err
		}
		if buy.WeightLimit.Limited && !w.AllLTE(buy.WeightLimit.Limit) {
			return nil, fmt.Errorf("%w: needs %s, limit %s", ErrWeightLimit, w, buy.WeightLimit.Limit)
		}
		rest = rest[2:]
	case xcm.UnpaidExecution:
		if err := e.checkUnpaid(*current, first); err != nil {
			return nil, err
		}
		if first.WeightLimit.Limited && !w.AllLTE(first.WeightLimit.Limit) {
			return nil, fmt.Errorf("%w: needs %s, limit %s", ErrWeightLimit, w, first.WeightLimit.Limit)
		}
		rest = rest[1:]
	default:
		return nil, fmt.Errorf("%w: program must pay for execution, starts with %s", ErrMissingFee, first.Opcode())
	}

	var exported []lane.Message
	for idx, instruction := range rest {
		switch i := instruction.(type) {
		case xcm.ExportMessage:
			if current == nil {
				return nil, ErrNoOrigin
			}
			msg, err := e.Export(tx, rec, *current, i.Network, i.Destination, i.Xcm)
			switch {
			case errors.Is(err, congestion.ErrCongested), errors.Is(err, ErrNoLaneForNetwork),
				errors.Is(err, ErrBlobTooLarge), errors.Is(err, ErrInvalidOrigin):
				return nil, fmt.Errorf("%w: %w", xcm.ErrRejected, err)
			case err != nil:
				return nil, err
			}
			exported = append(exported, msg)
		case xcm.DepositAsset:
			// holdings are not tracked, whatever is left stays with the beneficiary
		case xcm.ClearOrigin:
			current = nil
		case xcm.SetTopic:
			if idx != len(rest)-1 {
				return nil, fmt.Errorf("%w: SetTopic must be the last instruction", ErrUnexpectedInstruction)
			}
		case xcm.ClearTopic:
		case xcm.Trap:
			return nil, fmt.Errorf("%w: code %d", ErrTrapped, i.Code)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedInstruction, instruction.Opcode())
		}
	}
	return exported, nil
}

// checkFee requires a non zero fee withdrawn by the program itself. Its amount is not
// compared with the current quote.
func checkFee(withdrawn []xcm.Asset, buy xcm.BuyExecution) error {
	if buy.Fees.IsZero() {
		return ErrMissingFee
	}
	for _, a := range withdrawn {
		if a.ID.Equal(buy.Fees.ID) && !a.IsZero() && a.Amount.Cmp(buy.Fees.Amount) >= 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: fee %s not withdrawn", ErrMissingFee, buy.Fees.ID)
}

func (e *Exporter) checkUnpaid(origin xcm.Location, unpaid xcm.UnpaidExecution) error {
	if unpaid.CheckOrigin != nil && !unpaid.CheckOrigin.Equal(origin) {
		return fmt.Errorf("%w: expected origin %s, got %s", xcm.ErrRejected, unpaid.CheckOrigin, origin)
	}
	d := xcm.Classify(origin)
	if d.Kind != xcm.DestSibling || len(origin.Interior) != 1 {
		return fmt.Errorf("%w: %s", ErrUnpaidNotAllowed, origin)
	}
	if _, ok := e.trusted[d.ParaID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnpaidNotAllowed, origin)
	}
	return nil
}
