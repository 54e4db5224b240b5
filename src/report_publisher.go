package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/ryansname/gridsizer/src/portfolio"
	"github.com/ryansname/gridsizer/src/searchspace"
	"github.com/ryansname/gridsizer/src/topology"
)

// searchSpacePayload is the search space report plus advisory capital cost bounds
type searchSpacePayload struct {
	searchspace.Report
	CapitalCostLow  decimal.Decimal `json:"capital_cost_low"`
	CapitalCostHigh decimal.Decimal `json:"capital_cost_high"`
}

func buildSearchSpacePayload(snap portfolio.Snapshot) searchSpacePayload {
	low, high := searchspace.PortfolioCapitalRange(snap)
	return searchSpacePayload{
		Report:          searchspace.BuildReport(snap),
		CapitalCostLow:  low,
		CapitalCostHigh: high,
	}
}

// errorPayload describes a rejected command for the error topic
func errorPayload(err error) []byte {
	body := map[string]string{"error": err.Error()}
	var verr *portfolio.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
		body["reason"] = verr.Reason
	}
	payload, _ := json.Marshal(body)
	return payload
}

// publishSession publishes every derived view of a session's snapshot
func publishSession(sender *MQTTSender, session string, snap portfolio.Snapshot) error {
	graph := topology.Build(snap)

	if err := sender.PublishJSON(session, "snapshot", snap); err != nil {
		return err
	}
	if err := sender.PublishJSON(session, "searchspace", buildSearchSpacePayload(snap)); err != nil {
		return err
	}
	if err := sender.PublishJSON(session, "topology", graph); err != nil {
		return err
	}
	sender.PublishText(session, "topology/card", topology.RenderYAML(graph))
	return nil
}

// reportPublisher turns session updates into MQTT state messages
func reportPublisher(ctx context.Context, updateChan <-chan SessionUpdate, sender *MQTTSender) {
	log.Println("Report publisher started")
	announced := make(map[string]bool)

	for {
		select {
		case update := <-updateChan:
			if update.Err != nil {
				sender.PublishError(update.Session, errorPayload(update.Err))
				continue
			}
			if !announced[update.Session] {
				if err := publishDiscovery(sender, update.Session); err != nil {
					log.Printf("Failed to announce session %s: %v\n", update.Session, err)
				}
				announced[update.Session] = true
			}
			if err := publishSession(sender, update.Session, update.Snapshot); err != nil {
				log.Printf("Failed to publish session %s: %v\n", update.Session, err)
			}

		case <-ctx.Done():
			log.Println("Report publisher stopped")
			return
		}
	}
}
