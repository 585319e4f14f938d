package xcm

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownNetwork = errors.New("unknown network")

// NetworkID names a global consensus system
type NetworkID uint8

const (
	Polkadot NetworkID = iota
	Kusama
	Westend
	Rococo
	Wococo
	Ethereum
	BitcoinCore
)

var networkNames = map[NetworkID]string{
	Polkadot:    "Polkadot",
	Kusama:      "Kusama",
	Westend:     "Westend",
	Rococo:      "Rococo",
	Wococo:      "Wococo",
	Ethereum:    "Ethereum",
	BitcoinCore: "BitcoinCore",
}

func (n NetworkID) String() string {
	if name, ok := networkNames[n]; ok {
		return name
	}
	return fmt.Sprintf("Network(%d)", uint8(n))
}

func (n NetworkID) Valid() bool {
	_, ok := networkNames[n]
	return ok
}

// ParseNetworkID is case insensitive: "kusama" and "Kusama" are the same network
func ParseNetworkID(s string) (NetworkID, error) {
	for id, name := range networkNames {
		if strings.EqualFold(name, s) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
}

func (n NetworkID) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNetwork, uint8(n))
	}
	return []byte(n.String()), nil
}

func (n *NetworkID) UnmarshalText(text []byte) error {
	id, err := ParseNetworkID(string(text))
	if err != nil {
		return err
	}
	*n = id
	return nil
}
