/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	broker.go: publishes one MQTT message per record at QoS 1
	("at-least-once"), topic ogn/<receiver>/<sender> (or ogn/<sender>
	when no receiver is known). The connection driver is owned by the
	paho client's own background goroutines; Write itself never blocks
	on the network beyond paho's publish-token bookkeeping, and a
	publish failure is logged rather than propagated, matching the
	fire-and-forget broker semantics in spec §4.11.
*/

package sink

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
)

const brokerQoS = 1

// Broker publishes enriched records to an MQTT topic tree.
type Broker struct {
	client mqtt.Client
}

// NewBroker connects to an MQTT broker at host:port and returns a sink
// publishing to it.
func NewBroker(host string, port int) (*Broker, error) {
	opts := mqtt.NewClientOptions().AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Broker{client: client}, nil
}

func (b *Broker) Write(c container.Container) error {
	topic, payload, err := brokerMessage(c)
	if err != nil {
		return err
	}
	token := b.client.Publish(topic, brokerQoS, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			ognlog.Err("broker sink: publish to %s failed: %v", topic, token.Error())
		}
	}()
	return nil
}

// positionPayload is the fixed broker payload shape for position records,
// per spec §6.
type positionPayload struct {
	Distance                *float64 `json:"distance,omitempty"`
	Altitude                *uint32  `json:"altitude,omitempty"`
	NormalizedSignalQuality *float64 `json:"normalized_signal_quality,omitempty"`
}

func brokerMessage(c container.Container) (topic string, payload []byte, err error) {
	switch c.Kind {
	case container.KindPosition:
		p := c.Position
		payload, err = json.Marshal(positionPayload{
			Distance:                p.Distance,
			Altitude:                p.Altitude,
			NormalizedSignalQuality: p.NormalizedSignalQuality,
		})
		return brokerTopic(p.Receiver, p.SrcCall), payload, err
	case container.KindStatus:
		s := c.Status
		payload, err = json.Marshal(s)
		return brokerTopic(s.Receiver, s.SrcCall), payload, err
	case container.KindServerComment:
		payload, err = json.Marshal(c.ServerComment)
		return "ogn/system", payload, err
	default:
		payload, err = json.Marshal(c.ParserError)
		return "ogn/errors", payload, err
	}
}

func brokerTopic(receiver, sender aprs.Callsign) string {
	if receiver == "" {
		return fmt.Sprintf("ogn/%s", sender)
	}
	return fmt.Sprintf("ogn/%s/%s", receiver, sender)
}

func (b *Broker) Close() error {
	b.client.Disconnect(250)
	return nil
}
