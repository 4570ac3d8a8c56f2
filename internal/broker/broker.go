// Package broker bridges screen commands and rotation events over MQTT.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/presentation"
)

const (
	deviceCommands = "tv/+/commands"
	screenCommands = "screens/+/commands"
	qos            = 1
	handleTimeout  = 10 * time.Second
)

// Client is the part of mqtt.Client the broker uses.
type Client interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Handler applies commands to running screens.
type Handler interface {
	Reload(ctx context.Context, screenID int) error
	PlaybackEnded(screenID, contentID int, url string) bool
}

// DeviceLookup maps a paired device to its screen.
type DeviceLookup interface {
	GetScreenByDeviceID(ctx context.Context, deviceID string) (model.Screen, error)
}

// Command is an inbound message on a commands topic.
type Command struct {
	Type      string `json:"type"`
	ScreenID  int    `json:"screen_id,omitempty"`
	ContentID int    `json:"content_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

// PhaseMessage is published for every rotation change.
type PhaseMessage struct {
	Type      string `json:"type"`
	ScreenID  int    `json:"screen_id"`
	ContentID int    `json:"content_id"`
	Phase     string `json:"phase"`
	Index     int    `json:"index"`
	URL       string `json:"url"`
}

type Broker struct {
	client  Client
	devices DeviceLookup
	handler Handler
}

// Dial connects to brokerURL.
func Dial(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("[broker] connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("[broker] MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func New(client Client, devices DeviceLookup) *Broker {
	return &Broker{client: client, devices: devices}
}

// Serve subscribes to both command topics and routes them to h.
func (b *Broker) Serve(h Handler) error {
	b.handler = h
	for _, topic := range []string{deviceCommands, screenCommands} {
		if token := b.client.Subscribe(topic, qos, b.onMessage); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		log.Info().Str("topic", topic).Msg("[broker] subscribed")
	}
	return nil
}

func (b *Broker) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	if err := b.handle(ctx, msg.Topic(), msg.Payload()); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("[broker] command rejected")
	}
}

func (b *Broker) handle(ctx context.Context, topic string, payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	screenID, err := b.screenFor(ctx, topic, cmd)
	if err != nil {
		return err
	}
	if b.handler == nil {
		return fmt.Errorf("no handler")
	}

	switch cmd.Type {
	case "reload":
		return b.handler.Reload(ctx, screenID)
	case "ended":
		if !b.handler.PlaybackEnded(screenID, cmd.ContentID, cmd.URL) {
			log.Debug().Int("screen_id", screenID).Int("content_id", cmd.ContentID).Msg("[broker] stale playback end ignored")
		}
		return nil
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

// screenFor resolves the target screen from the topic segment, falling
// back to the payload for device topics of unpaired devices.
func (b *Broker) screenFor(ctx context.Context, topic string, cmd Command) (int, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[2] != "commands" {
		return 0, fmt.Errorf("unexpected topic %q", topic)
	}
	switch parts[0] {
	case "screens":
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid screen id in topic %q", topic)
		}
		return id, nil
	case "tv":
		if b.devices != nil {
			screen, err := b.devices.GetScreenByDeviceID(ctx, parts[1])
			if err == nil {
				return screen.ID, nil
			}
			if cmd.ScreenID == 0 {
				return 0, fmt.Errorf("device %s: %w", parts[1], err)
			}
		}
		if cmd.ScreenID == 0 {
			return 0, fmt.Errorf("device %s has no screen", parts[1])
		}
		return cmd.ScreenID, nil
	}
	return 0, fmt.Errorf("unexpected topic %q", topic)
}

// PhaseTopic is where rotation changes of a screen are published.
func PhaseTopic(screenID int) string {
	return fmt.Sprintf("screens/%d/phase", screenID)
}

// PhaseChanged publishes ev without waiting for the broker.
func (b *Broker) PhaseChanged(screenID int, ev presentation.PhaseEvent) {
	body, err := json.Marshal(PhaseMessage{
		Type:      "phase",
		ScreenID:  screenID,
		ContentID: ev.ContentID,
		Phase:     string(ev.Phase),
		Index:     ev.Index,
		URL:       ev.URL,
	})
	if err != nil {
		return
	}
	token := b.client.Publish(PhaseTopic(screenID), qos, false, body)
	go func() {
		if token.WaitTimeout(handleTimeout) && token.Error() != nil {
			log.Warn().Err(token.Error()).Int("screen_id", screenID).Msg("[broker] failed to publish phase")
		}
	}()
}

func (b *Broker) Close() {
	b.client.Disconnect(250)
	log.Info().Msg("[broker] MQTT client disconnected")
}
