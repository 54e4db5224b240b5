package main

import (
	"context"
	"log"
)

// broadcastWorker receives session updates and fans out to multiple downstream workers
func broadcastWorker(ctx context.Context, inputChan <-chan SessionUpdate, outputChans []chan<- SessionUpdate) {
	for {
		select {
		case update := <-inputChan:
			// Fan out to all downstream workers using non-blocking sends
			for i, ch := range outputChans {
				select {
				case ch <- update:
				case <-ctx.Done():
					return
				default:
					log.Printf("Warning: downstream worker %d channel full, dropping update\n", i)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
