package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/ecoleta/internal/events"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, complete bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeClient struct {
	topic        string
	qos          byte
	payload      []byte
	token        *fakeToken
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublishPointCreated(t *testing.T) {
	fc := &fakeClient{token: newFakeToken(nil, true)}
	pub := newPublisher(fc, "ecoleta/points")

	ev := events.PointCreated{PointID: 3, Name: "Mercado", City: "Recife", UF: "PE", ItemIDs: []int64{1, 2}}
	require.NoError(t, pub.PublishPointCreated(context.Background(), ev))

	assert.Equal(t, "ecoleta/points/created", fc.topic)
	assert.Equal(t, byte(1), fc.qos)

	var got events.PointCreated
	require.NoError(t, json.Unmarshal(fc.payload, &got))
	assert.Equal(t, int64(3), got.PointID)
	assert.Equal(t, []int64{1, 2}, got.ItemIDs)
}

func TestPublishPointCreated_BrokerError(t *testing.T) {
	fc := &fakeClient{token: newFakeToken(errors.New("not connected"), true)}
	pub := newPublisher(fc, "ecoleta/points")

	err := pub.PublishPointCreated(context.Background(), events.PointCreated{PointID: 1})
	assert.ErrorContains(t, err, "not connected")
}

func TestPublishPointCreated_ContextCancelled(t *testing.T) {
	fc := &fakeClient{token: newFakeToken(nil, false)}
	pub := newPublisher(fc, "ecoleta/points")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.PublishPointCreated(ctx, events.PointCreated{PointID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClose(t *testing.T) {
	fc := &fakeClient{token: newFakeToken(nil, true)}
	pub := newPublisher(fc, "ecoleta/points")

	pub.Close()
	assert.True(t, fc.disconnected)
}
