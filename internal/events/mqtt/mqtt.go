package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/vbonduro/ecoleta/internal/events"
)

const (
	qosAtLeastOnce = 1
	connectTimeout = 10 * time.Second
)

// client is the subset of paho.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	client client
	topic  string
}

// NewPublisher connects to broker (e.g. tcp://localhost:1883) and publishes
// events below topicPrefix.
func NewPublisher(broker, clientID, topicPrefix string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false)

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("failed to connect to broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to broker %s: %w", broker, err)
	}
	return newPublisher(c, topicPrefix), nil
}

func newPublisher(c client, topicPrefix string) *Publisher {
	return &Publisher{client: c, topic: topicPrefix + "/created"}
}

func (p *Publisher) PublishPointCreated(ctx context.Context, ev events.PointCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	token := p.client.Publish(p.topic, qosAtLeastOnce, false, data)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish %s: %w", p.topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
