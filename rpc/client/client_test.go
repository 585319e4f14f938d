package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xPolygon/lanebridge/chain"
	"github.com/0xPolygon/lanebridge/lane"
	"github.com/0xPolygon/lanebridge/relay"
	"github.com/0xPolygon/lanebridge/weight"
	"github.com/stretchr/testify/require"
)

var (
	_ relay.Source = (*Client)(nil)
	_ relay.Target = (*Client)(nil)

	laneL = lane.LaneID{0, 0, 0, 1}
)

type request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     json.RawMessage   `json:"id"`
}

// newServer answers every call with the result returned by handle for its method
func newServer(t *testing.T, handle func(method string, params []json.RawMessage) (interface{}, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		result, errMsg := handle(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if errMsg != "" {
			resp["error"] = map[string]interface{}{"code": -32000, "message": errMsg}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestOutboundLane(t *testing.T) {
	expected := lane.OutboundLaneData{OldestUnprunedNonce: 2, LatestReceivedNonce: 3, LatestGeneratedNonce: 5}
	c := newServer(t, func(method string, params []json.RawMessage) (interface{}, string) {
		require.Equal(t, "lanes_outboundLane", method)
		require.Len(t, params, 1)
		require.JSONEq(t, `"00000001"`, string(params[0]))
		return expected, ""
	})
	data, err := c.OutboundLane(context.Background(), laneL)
	require.NoError(t, err)
	require.Equal(t, expected, data)
}

func TestOutboundMessages(t *testing.T) {
	expected := []lane.Message{{Lane: laneL, Nonce: 4, Payload: []byte{0xca, 0xfe}}}
	c := newServer(t, func(method string, params []json.RawMessage) (interface{}, string) {
		require.Equal(t, "lanes_outboundMessages", method)
		require.Len(t, params, 3)
		return expected, ""
	})
	msgs, err := c.OutboundMessages(context.Background(), laneL, 4, 4)
	require.NoError(t, err)
	require.Equal(t, expected, msgs)
}

func TestDeliverMessagesSendsBatch(t *testing.T) {
	batch := chain.InboundBatch{
		Messages:  []lane.Message{{Lane: laneL, Nonce: 1, Payload: []byte{1, 2}}},
		MaxWeight: weight.New(10, 20),
	}
	c := newServer(t, func(method string, params []json.RawMessage) (interface{}, string) {
		require.Equal(t, "lanes_deliverMessages", method)
		var received chain.InboundBatch
		require.NoError(t, json.Unmarshal(params[0], &received))
		require.Equal(t, batch, received)
		return nil, ""
	})
	require.NoError(t, c.DeliverMessages(context.Background(), batch))
}

func TestErrorResponse(t *testing.T) {
	c := newServer(t, func(string, []json.RawMessage) (interface{}, string) {
		return nil, "lane is not configured"
	})
	_, err := c.InboundLane(context.Background(), laneL)
	require.ErrorContains(t, err, "lane is not configured")
	require.Error(t, c.ConfirmDelivery(context.Background(), chain.Confirmation{Lane: laneL, UpTo: 1}))
}

func TestCanceledContext(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.OutboundLane(ctx, laneL)
	require.ErrorIs(t, err, context.Canceled)
}
