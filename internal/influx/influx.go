// Package influx exports accepted samples to an InfluxDB v2 bucket.
// Export is optional: the daemon runs fine with it disabled.
package influx

import (
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/sweeney/chamber-logger/internal/logic"
)

const measurement = "chamber_reading"

// Writer queues accepted readings onto the non-blocking InfluxDB write
// API. Write failures are logged, never surfaced to the sampling path.
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	done     chan struct{}
}

// New creates a Writer for the given InfluxDB endpoint.
func New(url, token, org, bucket string) *Writer {
	client := influxdb2.NewClient(url, token)
	writeAPI := client.WriteAPI(org, bucket)

	w := &Writer{
		client:   client,
		writeAPI: writeAPI,
		done:     make(chan struct{}),
	}

	go func() {
		for {
			select {
			case err, ok := <-writeAPI.Errors():
				if !ok {
					return
				}
				log.Printf("influx write error: %v", err)
			case <-w.done:
				return
			}
		}
	}()

	return w
}

// WriteSample queues one accepted reading. Asynchronous; never blocks
// the control loop.
func (w *Writer) WriteSample(r logic.Reading, index int, at time.Time) {
	p := influxdb2.NewPointWithMeasurement(measurement).
		AddTag("logger", "chamber-logger").
		AddField("temp_a", int(r.A)).
		AddField("temp_b", int(r.B)).
		AddField("index", index).
		SetTime(at)
	w.writeAPI.WritePoint(p)
}

// Close flushes pending points and shuts the client down.
func (w *Writer) Close() {
	close(w.done)
	w.writeAPI.Flush()
	w.client.Close()
}
