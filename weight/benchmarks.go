package weight

// Measured costs of the program instructions and of the lane bookkeeping.
// Storage access is added on top with RocksDbWeight.
var (
	BuyExecution    = New(2_153_000, 0)
	Transact        = New(9_086_000, 0)
	ClearOrigin     = New(1_963_000, 0)
	DescendOrigin   = New(2_624_000, 0)
	SetTopic        = New(1_950_000, 0)
	ClearTopic      = New(1_963_000, 0)
	Trap            = New(1_977_000, 0)
	UnpaidExecution = New(2_065_000, 0)
	UniversalOrigin = New(2_624_000, 0).Add(RocksDbWeight.Reads(1))

	// asset movements touch the balances of the holder and of the checking account
	WithdrawAsset         = New(31_400_000, 3_593).Add(RocksDbWeight.ReadsWrites(1, 1))
	ReserveAssetDeposited = New(2_000_000, 0)
	DepositAsset          = New(28_350_000, 3_593).Add(RocksDbWeight.ReadsWrites(1, 1))

	// congestion check of one channel at the beginning of a block
	OnInitializeWhenNonCongested = New(8_730_000, 1_678).Add(RocksDbWeight.ReadsWrites(3, 1))
	OnInitializeWhenCongested    = New(3_696_000, 1_596).Add(RocksDbWeight.Reads(2))
	// channel open/close/suspend/resume notifications
	ReportBridgeStatus = New(10_651_000, 1_502).Add(RocksDbWeight.ReadsWrites(1, 1))
	// bookkeeping of one delivered inbound message, before its program is weighed
	ReceiveMessage = New(25_324_000, 3_520).Add(RocksDbWeight.ReadsWrites(2, 1))
	// forwarding one program over the upward or horizontal channel
	SendMessage = New(66_901_000, 6_427).Add(RocksDbWeight.ReadsWrites(12, 4))
)

// ExportMessage is the cost of exporting an inner program of encodedSize bytes
func ExportMessage(encodedSize uint64) Weight {
	return New(38_104_333, 6_128).
		Add(New(316_499, 0).Mul(encodedSize)).
		Add(RocksDbWeight.ReadsWrites(7, 3)) //nolint:gomnd
}
