package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// discoveryEntity is one sensor announced for a session's search space
type discoveryEntity struct {
	name             string
	jsonKey          string
	unit             string
	displayPrecision int
}

var searchSpaceEntities = []discoveryEntity{
	{name: "Search Space Combinations", jsonKey: "total"},
	{name: "Search Space Band", jsonKey: "band"},
	{name: "Estimated Runtime", jsonKey: "estimated_minutes", unit: "min", displayPrecision: 1},
	{name: "Capital Cost Low", jsonKey: "capital_cost_low", unit: "$", displayPrecision: 0},
	{name: "Capital Cost High", jsonKey: "capital_cost_high", unit: "$", displayPrecision: 0},
}

type discoveryConfig struct {
	Name             string `json:"name,omitempty"`
	StateTopic       string `json:"state_topic"`
	UnitOfMeasure    string `json:"unit_of_measurement,omitempty"`
	ValueTemplate    string `json:"value_template"`
	UniqueId         string `json:"unique_id"`
	StateClass       string `json:"state_class,omitempty"`
	DisplayPrecision int    `json:"suggested_display_precision,omitempty"`
	Device           struct {
		Identifiers []string `json:"identifiers"`
		Name        string   `json:"name"`
		Model       string   `json:"model,omitempty"`
	} `json:"device"`
}

func discoveryDeviceID(prefix, session string) string {
	id := strings.ToLower(prefix + "_" + session)
	return strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(id)
}

// publishDiscovery announces a session's search space as Home Assistant sensors
func publishDiscovery(sender *MQTTSender, session string) error {
	deviceID := discoveryDeviceID(sender.prefix, session)

	for _, e := range searchSpaceEntities {
		config := discoveryConfig{}
		config.Name = e.name
		config.StateTopic = sender.SessionTopic(session, "searchspace")
		config.UnitOfMeasure = e.unit
		config.ValueTemplate = "{{ value_json." + e.jsonKey + " }}"
		config.UniqueId = deviceID + "_" + e.jsonKey
		if e.jsonKey != "band" {
			config.StateClass = "measurement"
		}
		config.DisplayPrecision = e.displayPrecision
		config.Device.Identifiers = []string{deviceID}
		config.Device.Name = fmt.Sprintf("Gridsizer %s", session)
		config.Device.Model = "Portfolio search space"

		payload, err := json.Marshal(config)
		if err != nil {
			return err
		}

		sender.Send(MQTTMessage{
			Topic:   "homeassistant/sensor/" + deviceID + "_" + e.jsonKey + "/config",
			Payload: payload,
			QoS:     2,
			Retain:  true,
		})
	}
	return nil
}
