package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Update kinds published on events/<id>/updates. Downstream
// push/notification services subscribe; this layer only emits the
// domain signal.
const (
	KindEventFull     = "event_full"
	KindSpotOpened    = "spot_opened"
	KindSeriesCreated = "series_created"
	KindEventDeleted  = "event_deleted"
)

// Update is the wire payload for one event transition.
type Update struct {
	EventID        string `json:"event_id"`
	Kind           string `json:"kind"`
	SeriesID       string `json:"series_id,omitempty"`
	SpotsRemaining *int   `json:"spots_remaining,omitempty"`
}

// Publisher fans event transitions out over MQTT. A nil Publisher is
// valid and drops everything, so the broker stays optional in dev.
type Publisher struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker. An empty brokerURL returns a nil
// publisher, which every method treats as "notifications disabled".
func Connect(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{client: client}, nil
}

// Publish sends one update on the event's topic.
func (p *Publisher) Publish(u Update) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	topic := fmt.Sprintf("events/%s/updates", u.EventID)
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("failed to publish event update")
		return token.Error()
	}

	log.Debug().Str("topic", topic).Str("kind", u.Kind).Msg("published event update")
	return nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
