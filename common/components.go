package common

const (
	// NODE name to identify the node component (block loop, state and transport)
	NODE = "node"
	// RELAY name to identify the relay component (implies a reachable remote node)
	RELAY = "relay"
	// RPC name to identify the rpc component (implies node)
	RPC = "rpc"
)
