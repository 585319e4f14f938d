package types

import (
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FeeQuoteRequest asks the fee of exporting Program to Destination inside Network.
// Destination and Program are SCALE encoded.
type FeeQuoteRequest struct {
	Network     xcm.NetworkID `json:"network"`
	Destination hexutil.Bytes `json:"destination"`
	Program     hexutil.Bytes `json:"program"`
}

// ProgramRequest is an outbound program with the location it is sent from, both SCALE encoded
type ProgramRequest struct {
	Origin  hexutil.Bytes `json:"origin"`
	Program hexutil.Bytes `json:"program"`
}

func NewFeeQuoteRequest(network xcm.NetworkID, dest xcm.Junctions, inner xcm.Program) (FeeQuoteRequest, error) {
	d, err := dest.Bytes()
	if err != nil {
		return FeeQuoteRequest{}, err
	}
	p, err := inner.Bytes()
	if err != nil {
		return FeeQuoteRequest{}, err
	}
	return FeeQuoteRequest{Network: network, Destination: d, Program: p}, nil
}

func (r FeeQuoteRequest) Decode() (xcm.Junctions, xcm.Program, error) {
	dest, err := xcm.DecodeJunctions(r.Destination)
	if err != nil {
		return nil, nil, err
	}
	program, err := xcm.DecodeProgram(r.Program)
	if err != nil {
		return nil, nil, err
	}
	return dest, program, nil
}

func NewProgramRequest(origin xcm.Location, program xcm.Program) (ProgramRequest, error) {
	o, err := origin.Bytes()
	if err != nil {
		return ProgramRequest{}, err
	}
	p, err := program.Bytes()
	if err != nil {
		return ProgramRequest{}, err
	}
	return ProgramRequest{Origin: o, Program: p}, nil
}

func (r ProgramRequest) Decode() (xcm.Location, xcm.Program, error) {
	origin, err := xcm.DecodeLocation(r.Origin)
	if err != nil {
		return xcm.Location{}, nil, err
	}
	program, err := xcm.DecodeProgram(r.Program)
	if err != nil {
		return xcm.Location{}, nil, err
	}
	return origin, program, nil
}
