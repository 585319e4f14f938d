package router

import (
	"errors"
	"fmt"
	"strconv"

	lbcommon "github.com/0xPolygon/lanebridge/common"
	"github.com/0xPolygon/lanebridge/congestion"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/events"
	"github.com/0xPolygon/lanebridge/log"
	"github.com/0xPolygon/lanebridge/xcm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

var (
	ErrRoutingError = errors.New("routing error")
	// ErrExportRequired is returned for remote networks, they are reached through the exporter
	ErrExportRequired  = fmt.Errorf("%w: destination requires export", ErrRoutingError)
	ErrChannelClosed   = fmt.Errorf("%w: horizontal channel is not open", ErrRoutingError)
	ErrMessageTooLarge = fmt.Errorf("%w: message too large", ErrRoutingError)
	ErrNotQueued       = errors.New("channel has no outbound queue")
)

type ChannelKind uint8

const (
	ChannelLocal ChannelKind = iota
	ChannelUpward
	ChannelHorizontal
)

var channelKindNames = [...]string{"local", "upward", "horizontal"}

func (k ChannelKind) String() string {
	if int(k) < len(channelKindNames) {
		return channelKindNames[k]
	}
	return "ChannelKind(" + strconv.Itoa(int(k)) + ")"
}

func (k ChannelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ChannelKind) UnmarshalText(text []byte) error {
	for i, name := range channelKindNames {
		if name == string(text) {
			*k = ChannelKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown channel kind %q", text)
}

// Channel is where an admitted program goes. ParaID is only set for horizontal channels.
type Channel struct {
	Kind   ChannelKind `json:"kind"`
	ParaID uint32      `json:"paraId,omitempty"`
}

func Local() Channel                   { return Channel{Kind: ChannelLocal} }
func Upward() Channel                  { return Channel{Kind: ChannelUpward} }
func Horizontal(paraID uint32) Channel { return Channel{Kind: ChannelHorizontal, ParaID: paraID} }

func (c Channel) String() string {
	if c.Kind == ChannelHorizontal {
		return fmt.Sprintf("horizontal(%d)", c.ParaID)
	}
	return c.Kind.String()
}

// OutboundMessage is a program queued on the upward or a horizontal channel
type OutboundMessage struct {
	Seq     int64       `meddler:"seq,pk" json:"seq"`
	Kind    ChannelKind `meddler:"kind,text" json:"kind"`
	ParaID  uint32      `meddler:"para_id" json:"paraId"`
	Hash    common.Hash `meddler:"hash,hash" json:"hash"`
	Payload []byte      `meddler:"payload" json:"payload"`
}

func (m OutboundMessage) Channel() Channel {
	return Channel{Kind: m.Kind, ParaID: m.ParaID}
}

// Router decides where programs go and holds the upward and horizontal outbound queues
type Router struct {
	logger     *log.Logger
	cfg        Config
	congestion *congestion.Controller
}

func New(logger *log.Logger, cfg Config, ctrl *congestion.Controller) *Router {
	return &Router{logger: logger, cfg: cfg, congestion: ctrl}
}

// ResolveAndAdmit maps a destination to a channel and checks the channel takes traffic.
// The decision only depends on the location and the stored channel state.
func (r *Router) ResolveAndAdmit(q db.Querier, dest xcm.Location) (Channel, error) {
	d := xcm.Classify(dest)
	switch d.Kind {
	case xcm.DestHere:
		return Local(), nil
	case xcm.DestParent:
		return Upward(), nil
	case xcm.DestSibling:
		open, err := r.IsOpen(q, d.ParaID)
		if err != nil {
			return Channel{}, err
		}
		if !open {
			return Channel{}, fmt.Errorf("%w: %d", ErrChannelClosed, d.ParaID)
		}
		if err := r.congestion.Admit(q, congestion.SiblingChannel(d.ParaID)); err != nil {
			return Channel{}, err
		}
		return Horizontal(d.ParaID), nil
	case xcm.DestRemoteNetwork:
		return Channel{}, fmt.Errorf("%w: %s", ErrExportRequired, d)
	default:
		return Channel{}, fmt.Errorf("%w: malformed destination %s", ErrRoutingError, dest)
	}
}

func (r *Router) maxMessageSize(ch Channel) uint32 {
	if ch.Kind == ChannelUpward {
		return r.cfg.MaxUpwardMessageSize
	}
	return r.cfg.MaxHorizontalMessageSize
}

// Send appends the program to the outbound queue of an admitted channel
func (r *Router) Send(q db.Querier, rec *events.Recorder, ch Channel, program xcm.VersionedProgram) (common.Hash, error) {
	if ch.Kind != ChannelUpward && ch.Kind != ChannelHorizontal {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrNotQueued, ch)
	}
	payload, err := program.Bytes()
	if err != nil {
		return common.Hash{}, err
	}
	if limit := r.maxMessageSize(ch); limit > 0 && len(payload) > int(limit) {
		return common.Hash{}, fmt.Errorf("%w: %d bytes over %s, limit %d", ErrMessageTooLarge, len(payload), ch, limit)
	}
	msg := &OutboundMessage{
		Kind:    ch.Kind,
		ParaID:  ch.ParaID,
		Hash:    lbcommon.Blake2b256(payload),
		Payload: payload,
	}
	if err := meddler.Insert(q, "channel_message", msg); err != nil {
		return common.Hash{}, err
	}
	if ch.Kind == ChannelUpward {
		rec.Emit(events.UpwardMessageSent{Hash: msg.Hash})
	} else {
		rec.Emit(events.XcmpMessageSent{ParaID: ch.ParaID, Hash: msg.Hash})
	}
	r.logger.Debugf("queued message %s on %s", msg.Hash, ch)
	return msg.Hash, nil
}

// QueueDepth is the number of messages waiting on the channel
func (r *Router) QueueDepth(q db.Querier, ch Channel) (uint64, error) {
	var depth uint64
	err := q.QueryRow("SELECT COUNT(*) FROM channel_message WHERE kind = $1 AND para_id = $2;",
		ch.Kind.String(), ch.ParaID).Scan(&depth)
	return depth, err
}

// Drain removes up to limit queued messages of the channel, oldest first, and returns them
// for the transport. A limit of 0 means cfg.MaxDrainPerBlock.
func (r *Router) Drain(q db.Querier, ch Channel, limit uint32) ([]OutboundMessage, error) {
	if limit == 0 {
		limit = r.cfg.MaxDrainPerBlock
	}
	var msgs []*OutboundMessage
	err := meddler.QueryAll(q, &msgs, `
		SELECT * FROM channel_message WHERE kind = $1 AND para_id = $2
		ORDER BY seq ASC LIMIT $3;`, ch.Kind.String(), ch.ParaID, limit)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1].Seq
	if _, err := q.Exec("DELETE FROM channel_message WHERE kind = $1 AND para_id = $2 AND seq <= $3;",
		ch.Kind.String(), ch.ParaID, last); err != nil {
		return nil, err
	}
	return db.SlicePtrsToSlice(msgs).([]OutboundMessage), nil
}

// OpenChannel records a completed handshake with a sibling. Opening an open channel is a no-op.
func (r *Router) OpenChannel(q db.Querier, rec *events.Recorder, paraID uint32) error {
	res, err := q.Exec("INSERT INTO hrmp_channel (para_id) VALUES ($1) ON CONFLICT (para_id) DO NOTHING;", paraID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		rec.Emit(events.ChannelOpened{ParaID: paraID})
		r.logger.Infof("horizontal channel to %d opened", paraID)
	}
	return nil
}

// CloseChannel stops admission to a sibling. Messages already queued stay queued.
func (r *Router) CloseChannel(q db.Querier, rec *events.Recorder, paraID uint32) error {
	res, err := q.Exec("DELETE FROM hrmp_channel WHERE para_id = $1;", paraID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		rec.Emit(events.ChannelClosed{ParaID: paraID})
		r.logger.Infof("horizontal channel to %d closed", paraID)
	}
	return nil
}

func (r *Router) IsOpen(q db.Querier, paraID uint32) (bool, error) {
	var n int
	if err := q.QueryRow("SELECT COUNT(*) FROM hrmp_channel WHERE para_id = $1;", paraID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// OpenChannels returns the siblings with an open horizontal channel, ascending
func (r *Router) OpenChannels(q db.Querier) ([]uint32, error) {
	rows, err := q.Query("SELECT para_id FROM hrmp_channel ORDER BY para_id ASC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// QueuedChannels returns every channel with messages waiting, upward first
func (r *Router) QueuedChannels(q db.Querier) ([]Channel, error) {
	rows, err := q.Query(`
		SELECT DISTINCT kind, para_id FROM channel_message
		ORDER BY CASE kind WHEN 'upward' THEN 0 ELSE 1 END, para_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Channel
	for rows.Next() {
		var (
			kind   string
			paraID uint32
			ch     Channel
		)
		if err := rows.Scan(&kind, &paraID); err != nil {
			return nil, err
		}
		if err := ch.Kind.UnmarshalText([]byte(kind)); err != nil {
			return nil, err
		}
		ch.ParaID = paraID
		out = append(out, ch)
	}
	return out, rows.Err()
}
