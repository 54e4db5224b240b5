package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTMessage represents an outgoing MQTT message
type MQTTMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// MQTTSender wraps a channel for sending MQTT messages with helper methods
type MQTTSender struct {
	ch     chan<- MQTTMessage
	prefix string
}

// NewMQTTSender creates a new MQTTSender wrapping the given channel
func NewMQTTSender(ch chan<- MQTTMessage, prefix string) *MQTTSender {
	return &MQTTSender{ch: ch, prefix: prefix}
}

// Send sends a raw MQTTMessage
func (s *MQTTSender) Send(msg MQTTMessage) {
	s.ch <- msg
}

// SessionTopic returns the topic for a session's output
func (s *MQTTSender) SessionTopic(session, name string) string {
	return fmt.Sprintf("%s/%s/%s", s.prefix, session, name)
}

// PublishJSON marshals v and sends it as a retained session state message
func (s *MQTTSender) PublishJSON(session, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	s.Send(MQTTMessage{
		Topic:   s.SessionTopic(session, name),
		Payload: payload,
		QoS:     1,
		Retain:  true,
	})
	return nil
}

// PublishText sends a retained plain text payload
func (s *MQTTSender) PublishText(session, name, text string) {
	s.Send(MQTTMessage{
		Topic:   s.SessionTopic(session, name),
		Payload: []byte(text),
		QoS:     1,
		Retain:  true,
	})
}

// PublishError reports a rejected command. Errors are not retained.
func (s *MQTTSender) PublishError(session string, payload []byte) {
	s.Send(MQTTMessage{
		Topic:   s.SessionTopic(session, "error"),
		Payload: payload,
		QoS:     1,
		Retain:  false,
	})
}

// mqttSenderWorker publishes outgoing MQTT messages, queuing them until a client is connected
func mqttSenderWorker(
	ctx context.Context,
	outgoingChan <-chan MQTTMessage,
	clientChan <-chan mqtt.Client,
) {
	log.Println("MQTT sender worker started")

	var client mqtt.Client
	var messageQueue []MQTTMessage

	for {
		select {
		case newClient := <-clientChan:
			log.Println("MQTT sender worker received new client")
			client = newClient

			// Process any queued messages now that we have a client
			if client != nil && client.IsConnected() {
				queuedCount := len(messageQueue)
				for _, msg := range messageQueue {
					token := client.Publish(msg.Topic, msg.QoS, msg.Retain, msg.Payload)
					token.Wait()
					if token.Error() != nil {
						log.Printf("Failed to publish queued message to %s: %v\n", msg.Topic, token.Error())
					}
				}
				messageQueue = nil
				if queuedCount > 0 {
					log.Printf("MQTT sender worker processed %d queued messages\n", queuedCount)
				}
			}

		case msg := <-outgoingChan:
			if client != nil && client.IsConnected() {
				token := client.Publish(msg.Topic, msg.QoS, msg.Retain, msg.Payload)
				token.Wait()
				if token.Error() != nil {
					log.Printf("Failed to publish to %s: %v\n", msg.Topic, token.Error())
				}
			} else {
				// No client yet, queue the message
				messageQueue = append(messageQueue, msg)
				log.Printf("MQTT sender worker queued message (total queued: %d)\n", len(messageQueue))
			}

		case <-ctx.Done():
			log.Println("MQTT sender worker stopped")
			return
		}
	}
}
