package config

// DefaultVars are the values referenced from DefaultValues. They depend on the deployment,
// so they are usually overridden by the user config file or by LANES_<var> env vars
const DefaultVars = `
PathRWData = "/tmp/lanebridge"
# ParaID is the id of this chain under its relay chain
ParaID = 1002
# Network is the global consensus this chain belongs to
Network = "Polkadot"
# BridgedNetwork is the remote global consensus reachable through the default lane
BridgedNetwork = "Kusama"
# RemoteNodeURL is the RPC of the node on the other side of the bridge
RemoteNodeURL = "http://localhost:5577"
`

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
  # Environment is the environment where the node is running
  Environment = "development" # "production" or "development"
  # Level is the log level
  Level = "info"
  # Outputs are the outputs where the logs will be written
  Outputs = ["stderr"]

[Common]
  ParaID = {{ParaID}}
  Network = "{{Network}}"

[Chain]
  DBPath = "{{PathRWData}}/lanes.sqlite"
  # MaxMessagesToPruneAtOnce bounds the automatic pruning done at the end of each block
  MaxMessagesToPruneAtOnce = 64
  # TrustedOrigins are the sibling para ids allowed to use UnpaidExecution
  TrustedOrigins = [1000]
  [Chain.MaxBlockWeight]
    RefTime = 2000000000000
    ProofSize = 5242880

[[Lanes]]
  ID = "00000001"
  Network = "{{BridgedNetwork}}"

[Congestion]
  # Threshold is the queue depth above which a channel is congested
  Threshold = 1024
  # RecoveryChecks is the number of consecutive checks below the threshold needed to
  # leave the congested state
  RecoveryChecks = 3
  # IncreaseFactor multiplies the delivery fee factor on every congested check
  IncreaseFactor = "1.05"
  # DecreaseFactor multiplies the fee factor when not congested, empty means 1/IncreaseFactor
  DecreaseFactor = ""

[Fees]
  BaseFee = 1000000
  ByteFee = 1000
  # WeightFeeDivisor converts ref time into fee, fee = refTime / WeightFeeDivisor
  WeightFeeDivisor = 10000

[Router]
  MaxUpwardMessageSize = 65531
  MaxHorizontalMessageSize = 102400
  # MaxDrainPerBlock is the number of queued messages per channel handed to the transport per block
  MaxDrainPerBlock = 100

[Node]
  BlockTime = "6s"
  MaxProgramsPerBlock = 100
  MaxInboundBatchesPerBlock = 10

[Relay]
  SourceURL = "{{RemoteNodeURL}}"
  TargetURL = "http://localhost:{{RPC.Port}}"
  Lanes = ["00000001"]
  CheckpointPath = "{{PathRWData}}/relay.db"
  PollInterval = "3s"
  MaxMessagesPerBatch = 16
  RetryAttempts = 5
  RetryDelay = "500ms"
  [Relay.MaxBatchWeight]
    RefTime = 500000000000
    ProofSize = 1048576

[RPC]
  # Host defines the network adapter that will be used to serve the HTTP requests
  Host = "0.0.0.0"
  # Port defines the port to serve the endpoints via HTTP
  Port = 5576
  # ReadTimeout is the HTTP server read timeout
  # check net/http.server.ReadTimeout and net/http.server.ReadHeaderTimeout
  ReadTimeout = "2s"
  # WriteTimeout is the HTTP server write timeout
  # check net/http.server.WriteTimeout
  WriteTimeout = "2s"
  # MaxRequestsPerIPAndSecond defines how much requests a single IP can
  # send within a single second
  MaxRequestsPerIPAndSecond = 10
`
