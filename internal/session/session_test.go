package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linealab/linea/internal/engine"
	"github.com/linealab/linea/internal/geom"
)

// testClient returns a client with no socket; outbound messages pile up in
// the send buffer where the test can read them.
func testClient() *Client {
	return &Client{send: make(chan []byte, 64)}
}

func nextMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("no message queued")
		return Message{}
	}
}

func TestAttachSendsWelcome(t *testing.T) {
	hub := NewHub(nil, nil)
	c := testClient()

	s, err := hub.Attach("sk_test", c)
	require.NoError(t, err)
	require.NotNil(t, s)

	msg := nextMessage(t, c)
	assert.Equal(t, TypeWelcome, msg.Type)
	assert.Equal(t, "sk_test", msg.SketchID)

	var state StatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &state))
	assert.Equal(t, engine.ToolSelector, state.Tool.Tool.Kind)
}

func TestSecondAttachRefused(t *testing.T) {
	hub := NewHub(nil, nil)

	_, err := hub.Attach("sk_test", testClient())
	require.NoError(t, err)

	_, err = hub.Attach("sk_test", testClient())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestDetachFreesSketchAndSaves(t *testing.T) {
	var saved []byte
	hub := NewHub(nil, func(sketchID string, doc []byte) error {
		saved = doc
		return nil
	})

	s, err := hub.Attach("sk_test", testClient())
	require.NoError(t, err)

	s.Detach()
	assert.NotEmpty(t, saved)

	_, err = hub.Attach("sk_test", testClient())
	assert.NoError(t, err)
}

func TestHandleEventPushesState(t *testing.T) {
	hub := NewHub(nil, nil)
	c := testClient()

	s, err := hub.Attach("sk_test", c)
	require.NoError(t, err)
	nextMessage(t, c) // drain welcome

	s.HandleEvent(engine.Event{Kind: engine.EvMouseMove, P: geom.V(5, 5)})

	msg := nextMessage(t, c)
	assert.Equal(t, TypeState, msg.Type)

	var state StatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &state))
	assert.Equal(t, geom.V(5, 5), state.Tool.MousePoint)
}
