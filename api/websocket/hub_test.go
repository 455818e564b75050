package websocket

import (
	"bytes"
	"encoding/json"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

func newSubscribedClient(t *testing.T, h *Hub, id string, channels ...string) *Client {
	t.Helper()
	c := NewClient(h, nil, id, "127.0.0.1")
	h.registerClient(c)
	for _, ch := range channels {
		h.handleSubscription(&SubscriptionRequest{Client: c, Channel: ch, Action: "subscribe"})
		ack := drain(c)
		require.Len(t, ack, 1)
		require.Equal(t, "subscribed", ack[0].Type)
	}
	return c
}

func drain(c *Client) []WSMessage {
	var out []WSMessage
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg WSMessage
			if err := json.Unmarshal(data, &msg); err == nil {
				out = append(out, msg)
			}
		default:
			return out
		}
	}
}

func TestPublishEventsRouting(t *testing.T) {
	h := NewHub(nil)

	alice := sdk.AccAddress(bytes.Repeat([]byte{1}, 20)).String()
	bob := sdk.AccAddress(bytes.Repeat([]byte{2}, 20)).String()

	all := newSubscribedClient(t, h, "all", ChannelEvents)
	pool := newSubscribedClient(t, h, "pool", ChannelPool+"3")
	otherPool := newSubscribedClient(t, h, "other", ChannelPool+"4")
	aliceSub := newSubscribedClient(t, h, "alice", ChannelAccount+alice)
	bobSub := newSubscribedClient(t, h, "bob", ChannelAccount+bob)
	blocks := newSubscribedClient(t, h, "blocks", ChannelBlocks)

	h.PublishEvents(10, sdk.Events{
		sdk.NewEvent(farmingtypes.EventTypeDeposit,
			sdk.NewAttribute(farmingtypes.AttributeKeyPoolID, "3"),
			sdk.NewAttribute(farmingtypes.AttributeKeyAccount, alice),
			sdk.NewAttribute(farmingtypes.AttributeKeyRecipient, bob),
			sdk.NewAttribute(farmingtypes.AttributeKeyAmount, "100"),
		),
		sdk.NewEvent(farmingtypes.EventTypeEpoch,
			sdk.NewAttribute(farmingtypes.AttributeKeyBlockHeight, "10"),
		),
	})

	require.Len(t, drain(all), 1)
	require.Len(t, drain(pool), 1)
	require.Empty(t, drain(otherPool))
	require.Len(t, drain(aliceSub), 1)
	require.Len(t, drain(bobSub), 1)

	got := drain(blocks)
	require.Len(t, got, 1)
	require.Equal(t, "block", got[0].Type)
	require.Equal(t, ChannelBlocks, got[0].Channel)
}

func TestPublishSelfDepositReachesAccountOnce(t *testing.T) {
	h := NewHub(nil)
	alice := sdk.AccAddress(bytes.Repeat([]byte{1}, 20)).String()
	sub := newSubscribedClient(t, h, "alice", ChannelAccount+alice)

	h.PublishEvents(5, sdk.Events{
		sdk.NewEvent(farmingtypes.EventTypeDeposit,
			sdk.NewAttribute(farmingtypes.AttributeKeyPoolID, "0"),
			sdk.NewAttribute(farmingtypes.AttributeKeyAccount, alice),
			sdk.NewAttribute(farmingtypes.AttributeKeyRecipient, alice),
		),
	})
	require.Len(t, drain(sub), 1)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	var gone *Client
	h.onUnregister = func(c *Client) { gone = c }

	c := newSubscribedClient(t, h, "c1", ChannelEvents)
	require.Equal(t, 1, h.GetChannelClientCount(ChannelEvents))

	h.unregisterClient(c)
	require.Equal(t, c, gone)
	require.Equal(t, 0, h.GetClientCount())
	require.Equal(t, 0, h.GetChannelCount())

	_, ok := <-c.send
	require.False(t, ok)

	// late sends are dropped
	require.NotPanics(t, func() { c.Send([]byte("late")) })
}

func TestValidateChannel(t *testing.T) {
	alice := sdk.AccAddress(bytes.Repeat([]byte{1}, 20)).String()

	testCases := []struct {
		channel string
		valid   bool
	}{
		{ChannelEvents, true},
		{ChannelBlocks, true},
		{ChannelStatus, true},
		{ChannelPool + "12", true},
		{ChannelPool + "-1", false},
		{ChannelPool, false},
		{ChannelAccount + alice, true},
		{ChannelAccount + "nope", false},
		{"trades", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.channel, func(t *testing.T) {
			err := ValidateChannel(tc.channel)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestChannelLabel(t *testing.T) {
	require.Equal(t, "pool", channelLabel("pool:7"))
	require.Equal(t, "account", channelLabel("account:cosmos1xyz"))
	require.Equal(t, ChannelEvents, channelLabel(ChannelEvents))
}
