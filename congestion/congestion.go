package congestion

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/russross/meddler"
)

var ErrCongested = errors.New("channel is congested")

type ChannelKind uint8

const (
	KindLane ChannelKind = iota
	KindSibling
)

func (k ChannelKind) String() string {
	if k == KindLane {
		return "lane"
	}
	return "sibling"
}

func (k ChannelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ChannelKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "lane":
		*k = KindLane
	case "sibling":
		*k = KindSibling
	default:
		return fmt.Errorf("unknown channel kind %q", text)
	}
	return nil
}

// Channel is a queue whose depth is watched: an outbound lane or the horizontal
// channel to a sibling
type Channel struct {
	Kind ChannelKind `json:"kind"`
	ID   string      `json:"id"`
}

func LaneChannel(id lane.LaneID) Channel {
	return Channel{Kind: KindLane, ID: id.String()}
}

func SiblingChannel(paraID uint32) Channel {
	return Channel{Kind: KindSibling, ID: strconv.FormatUint(uint64(paraID), 10)}
}

func (c Channel) String() string {
	return c.Kind.String() + "/" + c.ID
}

// State of a channel. The zero row of a channel never checked is Normal with fee factor One.
type State struct {
	Channel              Channel  `json:"channel"`
	Congested            bool     `json:"congested"`
	Suspended            bool     `json:"suspended"`
	BelowThresholdChecks uint32   `json:"belowThresholdChecks"`
	FeeFactor            *big.Int `json:"feeFactor"`
}

func defaultState(ch Channel) State {
	return State{Channel: ch, FeeFactor: new(big.Int).Set(One)}
}

type stateRow struct {
	Kind                 ChannelKind `meddler:"kind,text"`
	ID                   string      `meddler:"id"`
	Congested            bool        `meddler:"congested"`
	Suspended            bool        `meddler:"suspended"`
	BelowThresholdChecks uint32      `meddler:"below_threshold_checks"`
	FeeFactor            *big.Int    `meddler:"fee_factor,bigint"`
}

type Transition uint8

const (
	Unchanged Transition = iota
	BecameCongested
	Recovered
)

// Update is the result of a state change. PreviousFeeFactor lets callers report fee moves.
type Update struct {
	State             State
	Transition        Transition
	PreviousFeeFactor *big.Int
}

func (u Update) FeeFactorChanged() bool {
	return u.PreviousFeeFactor.Cmp(u.State.FeeFactor) != 0
}

// Controller runs the per channel Normal/Congested state machine and the delivery fee factor
type Controller struct {
	logger         *log.Logger
	threshold      uint64
	recoveryChecks uint32
	increase       *big.Int
	decrease       *big.Int
}

func New(logger *log.Logger, cfg Config) (*Controller, error) {
	increase, err := ParseFactor(cfg.IncreaseFactor)
	if err != nil {
		return nil, fmt.Errorf("invalid IncreaseFactor: %w", err)
	}
	if increase.Cmp(One) <= 0 {
		return nil, fmt.Errorf("IncreaseFactor %s must be greater than 1", cfg.IncreaseFactor)
	}
	decrease := DivFactor(One, increase)
	if cfg.DecreaseFactor != "" {
		if decrease, err = ParseFactor(cfg.DecreaseFactor); err != nil {
			return nil, fmt.Errorf("invalid DecreaseFactor: %w", err)
		}
		if decrease.Cmp(One) >= 0 {
			return nil, fmt.Errorf("DecreaseFactor %s must be lower than 1", cfg.DecreaseFactor)
		}
	}
	recovery := cfg.RecoveryChecks
	if recovery == 0 {
		recovery = 1
	}
	return &Controller{
		logger:         logger,
		threshold:      cfg.Threshold,
		recoveryChecks: recovery,
		increase:       increase,
		decrease:       decrease,
	}, nil
}

func (c *Controller) State(q db.Querier, ch Channel) (State, error) {
	row := &stateRow{}
	err := meddler.QueryRow(q, row,
		"SELECT * FROM channel_congestion WHERE kind = $1 AND id = $2;", ch.Kind.String(), ch.ID)
	if errors.Is(db.ReturnErrNotFound(err), db.ErrNotFound) {
		return defaultState(ch), nil
	}
	if err != nil {
		return State{}, err
	}
	return rowToState(row), nil
}

// States returns every channel that was ever checked or notified
func (c *Controller) States(q db.Querier) ([]State, error) {
	var rows []*stateRow
	if err := meddler.QueryAll(q, &rows, "SELECT * FROM channel_congestion ORDER BY kind, id;"); err != nil {
		return nil, err
	}
	states := make([]State, len(rows))
	for i, row := range rows {
		states[i] = rowToState(row)
	}
	return states, nil
}

func rowToState(row *stateRow) State {
	return State{
		Channel:              Channel{Kind: row.Kind, ID: row.ID},
		Congested:            row.Congested,
		Suspended:            row.Suspended,
		BelowThresholdChecks: row.BelowThresholdChecks,
		FeeFactor:            row.FeeFactor,
	}
}

func (c *Controller) save(q db.Querier, st State) error {
	_, err := q.Exec(`
		INSERT INTO channel_congestion (kind, id, congested, suspended, below_threshold_checks, fee_factor)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, id) DO UPDATE SET
			congested = excluded.congested,
			suspended = excluded.suspended,
			below_threshold_checks = excluded.below_threshold_checks,
			fee_factor = excluded.fee_factor;`,
		st.Channel.Kind.String(), st.Channel.ID, st.Congested, st.Suspended, st.BelowThresholdChecks,
		st.FeeFactor.String())
	return err
}

// Check is run once per block and channel with the current queue depth
func (c *Controller) Check(q db.Querier, ch Channel, depth uint64) (Update, error) {
	st, err := c.State(q, ch)
	if err != nil {
		return Update{}, err
	}
	update := Update{Transition: Unchanged, PreviousFeeFactor: new(big.Int).Set(st.FeeFactor)}

	switch {
	case st.Suspended:
		// only Resume leaves a suspension, the fee stays where it is
		st.BelowThresholdChecks = 0
	case depth > c.threshold:
		if !st.Congested {
			update.Transition = BecameCongested
		}
		st.Congested = true
		st.BelowThresholdChecks = 0
		st.FeeFactor = MulFactor(st.FeeFactor, c.increase)
	default:
		if st.Congested {
			st.BelowThresholdChecks++
			if st.BelowThresholdChecks >= c.recoveryChecks {
				st.Congested = false
				st.BelowThresholdChecks = 0
				update.Transition = Recovered
			}
		}
		st.FeeFactor = MulFactor(st.FeeFactor, c.decrease)
		if st.FeeFactor.Cmp(One) < 0 {
			st.FeeFactor = new(big.Int).Set(One)
		}
	}
	if err := c.save(q, st); err != nil {
		return Update{}, err
	}
	if update.Transition != Unchanged {
		c.logger.Infof("channel %s: depth %d, congested=%t, fee factor %s",
			ch, depth, st.Congested, FormatFactor(st.FeeFactor))
	}
	update.State = st
	return update, nil
}

// Suspend marks the channel congested until Resume is called, whatever its depth
func (c *Controller) Suspend(q db.Querier, ch Channel) (Update, error) {
	st, err := c.State(q, ch)
	if err != nil {
		return Update{}, err
	}
	update := Update{Transition: Unchanged, PreviousFeeFactor: new(big.Int).Set(st.FeeFactor)}
	if !st.Congested {
		update.Transition = BecameCongested
	}
	st.Suspended = true
	st.Congested = true
	st.BelowThresholdChecks = 0
	if err := c.save(q, st); err != nil {
		return Update{}, err
	}
	update.State = st
	return update, nil
}

// Resume lifts a suspension, the channel accepts traffic again right away
func (c *Controller) Resume(q db.Querier, ch Channel) (Update, error) {
	st, err := c.State(q, ch)
	if err != nil {
		return Update{}, err
	}
	update := Update{Transition: Unchanged, PreviousFeeFactor: new(big.Int).Set(st.FeeFactor)}
	if st.Congested {
		update.Transition = Recovered
	}
	st.Suspended = false
	st.Congested = false
	st.BelowThresholdChecks = 0
	if err := c.save(q, st); err != nil {
		return Update{}, err
	}
	update.State = st
	return update, nil
}

func (c *Controller) IsCongested(q db.Querier, ch Channel) (bool, error) {
	st, err := c.State(q, ch)
	if err != nil {
		return false, err
	}
	return st.Congested, nil
}

// Admit returns ErrCongested when new traffic must not be queued on the channel
func (c *Controller) Admit(q db.Querier, ch Channel) error {
	congested, err := c.IsCongested(q, ch)
	if err != nil {
		return err
	}
	if congested {
		return fmt.Errorf("%w: %s", ErrCongested, ch)
	}
	return nil
}

// FeeFactor is the current multiplier of the delivery fee over the channel
func (c *Controller) FeeFactor(q db.Querier, ch Channel) (*big.Int, error) {
	st, err := c.State(q, ch)
	if err != nil {
		return nil, err
	}
	return st.FeeFactor, nil
}

// ParaID returns the sibling a sibling channel points to
func (c Channel) ParaID() (uint32, error) {
	if c.Kind != KindSibling {
		return 0, fmt.Errorf("channel %s is not a sibling channel", c)
	}
	id, err := strconv.ParseUint(c.ID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid sibling channel id %q: %w", c.ID, err)
	}
	return uint32(id), nil
}
