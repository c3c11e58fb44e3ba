// Command chamber-logger samples two chamber temperature probes, keeps a
// bounded crash-durable reading log, and replays it with statistics on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweeney/chamber-logger/internal/gpio"
	"github.com/sweeney/chamber-logger/internal/influx"
	"github.com/sweeney/chamber-logger/internal/logic"
	"github.com/sweeney/chamber-logger/internal/mqtt"
	"github.com/sweeney/chamber-logger/internal/report"
	"github.com/sweeney/chamber-logger/internal/sensor"
	"github.com/sweeney/chamber-logger/internal/status"
	"github.com/sweeney/chamber-logger/internal/store"
	"github.com/sweeney/chamber-logger/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment variables")
	}

	opts := options{}
	flag.DurationVar(&opts.poll, "poll", 100*time.Millisecond, "Input polling interval")
	flag.DurationVar(&opts.debounce, "debounce", logic.DefaultDebounce, "Button debounce duration")
	flag.DurationVar(&opts.hold, "hold", logic.DefaultHold, "Load button hold duration for erase")
	flag.DurationVar(&opts.duration, "duration", logic.DefaultDuration, "Total test duration (sample period is duration/60)")
	flag.BoolVar(&opts.resume, "resume", false, "Append to existing history on session start instead of erasing")
	flag.StringVar(&opts.broker, "broker", getEnv("MQTT_BROKER", "tcp://192.168.1.200:1883"), "MQTT broker address")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.IntVar(&opts.pinToggle, "pin-toggle", gpio.DefaultPinToggle, "BCM pin number for the toggle button")
	flag.IntVar(&opts.pinLoad, "pin-load", gpio.DefaultPinLoad, "BCM pin number for the load button")
	flag.StringVar(&opts.pinSensorA, "pin-sensor-a", sensor.DefaultPinA, "GPIO pin name for probe A")
	flag.StringVar(&opts.pinSensorB, "pin-sensor-b", sensor.DefaultPinB, "GPIO pin name for probe B")
	flag.StringVar(&opts.dataFile, "data", "/var/lib/chamber-logger/readings.bin", "Reading log file (the non-volatile region)")
	flag.IntVar(&opts.capacity, "capacity", store.DefaultCapacity, "Region capacity in bytes")
	flag.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.influxURL, "influx-url", os.Getenv("INFLUX_URL"), "InfluxDB URL (empty to disable export)")
	flag.StringVar(&opts.influxToken, "influx-token", os.Getenv("INFLUX_TOKEN"), "InfluxDB token")
	flag.StringVar(&opts.influxOrg, "influx-org", os.Getenv("INFLUX_ORG"), "InfluxDB organization")
	flag.StringVar(&opts.influxBucket, "influx-bucket", os.Getenv("INFLUX_BUCKET"), "InfluxDB bucket")
	printState := flag.Bool("print-state", false, "Print stored log state and exit")

	flag.Parse()

	if *printState {
		if err := printStoreState(opts.dataFile, opts.capacity); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type options struct {
	poll       time.Duration
	debounce   time.Duration
	hold       time.Duration
	duration   time.Duration
	resume     bool
	broker     string
	heartbeat  time.Duration
	pinToggle  int
	pinLoad    int
	pinSensorA string
	pinSensorB string
	dataFile   string
	capacity   int
	httpAddr   string

	influxURL    string
	influxToken  string
	influxOrg    string
	influxBucket string
}

func run(opts options) error {
	// Open the store first: the layout-vs-capacity check is a startup
	// configuration error, not a runtime one.
	st, err := store.Open(opts.dataFile, opts.capacity)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	buttons, err := gpio.NewRealReader(opts.pinToggle, opts.pinLoad)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer buttons.Close()

	sensors, err := sensor.NewRealReader(opts.pinSensorA, opts.pinSensorB)
	if err != nil {
		return fmt.Errorf("init sensors: %w", err)
	}
	defer sensors.Close()

	publisher, err := mqtt.NewRealPublisher(opts.broker)
	if err != nil {
		return fmt.Errorf("connect mqtt: %w", err)
	}
	defer publisher.Close()

	startTime := time.Now()
	ctrl := logic.NewController(st, logic.NewFilter(logic.DefaultThreshold), sensor.Convert, logic.Config{
		Duration: opts.duration,
		Resume:   opts.resume,
	}, startTime)
	btns := logic.NewButtons(opts.debounce, opts.hold)

	tracker := status.NewTracker(startTime, status.Config{
		PollMs:     opts.poll.Milliseconds(),
		DebounceMs: opts.debounce.Milliseconds(),
		HoldMs:     opts.hold.Milliseconds(),
		PeriodMs:   ctrl.Period().Milliseconds(),
		DurationMs: opts.duration.Milliseconds(),
		Broker:     opts.broker,
		HTTPAddr:   opts.httpAddr,
		DataFile:   opts.dataFile,
		InfluxURL:  opts.influxURL,
	})
	tracker.Update(ctrl.State(), st.Len(), ctrl.Counts())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	var exporter sampleExporter
	if opts.influxURL != "" {
		w := influx.New(opts.influxURL, opts.influxToken, opts.influxOrg, opts.influxBucket)
		defer w.Close()
		exporter = w
		log.Printf("influx export enabled: %s", opts.influxURL)
	}

	log.Printf("started: poll=%v debounce=%v period=%v broker=%s data=%s count=%d",
		opts.poll, opts.debounce, ctrl.Period(), opts.broker, opts.dataFile, st.Len())

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		buttons:    buttons,
		sensors:    sensors,
		ctrl:       ctrl,
		btns:       btns,
		store:      st,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		exporter:   exporter,
		reportOut:  os.Stdout,
		heartbeat:  opts.heartbeat,
		now:        time.Now,
		tick:       ticker.C,
		sig:        sigCh,
	})
}

// sampleExporter receives accepted samples; nil disables export.
type sampleExporter interface {
	WriteSample(r logic.Reading, index int, at time.Time)
}

// loopDeps carries the run loop collaborators so tests can inject fakes
// and a scripted clock.
type loopDeps struct {
	buttons    gpio.Reader
	sensors    sensor.Reader
	ctrl       *logic.Controller
	btns       *logic.Buttons
	store      logic.Log
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	exporter   sampleExporter
	reportOut  io.Writer
	heartbeat  time.Duration
	now        func() time.Time
	tick       <-chan time.Time
	sig        <-chan os.Signal
}

func runLoop(d loopDeps) error {
	for {
		select {
		case s := <-d.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-d.tick:
			t := d.now()

			toggle, load, err := d.buttons.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
			} else {
				for _, action := range d.btns.Process(logic.ButtonInput{Toggle: toggle, Load: load, Time: t}) {
					d.handleAction(action, t)
				}
			}

			if d.ctrl.Due(t) {
				in := logic.SampleInput{Time: t}
				s, err := d.sensors.Read()
				if err != nil {
					// Zero raw values make the controller treat the
					// tick as a sensor fault instead of losing it.
					log.Printf("sensor read error: %v", err)
				} else {
					in.RawA = s.RawA
					in.RawB = s.RawB
				}
				d.publishEvents(d.ctrl.Sample(in))
			}

			// Check for heartbeat
			if hb := d.ctrl.CheckHeartbeat(t, d.heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v stored=%d rejected=%d faults=%d",
					hb.Uptime, hb.Counts.Stored, hb.Counts.Rejected, hb.Counts.Faults)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					if d.mqttStatus != nil {
						d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
					}
					d.tracker.Update(d.ctrl.State(), d.store.Len(), d.ctrl.Counts())
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if d.tracker != nil {
				d.tracker.Update(d.ctrl.State(), d.store.Len(), d.ctrl.Counts())
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}
		}
	}
}

func (d loopDeps) handleAction(action logic.Action, t time.Time) {
	switch action {
	case logic.ActionToggle:
		events, err := d.ctrl.Toggle(t)
		if err != nil {
			log.Printf("toggle error: %v", err)
		}
		d.publishEvents(events)

	case logic.ActionReplay:
		sink := &report.TextSink{W: d.reportOut}
		rep, err := report.Replay(d.store, sink)
		if err != nil {
			log.Printf("replay: %v", err)
			return
		}
		log.Printf("replayed %d readings", rep.Count)
		if err := d.publisher.PublishReport(mqtt.ReportEvent{Timestamp: t, Report: rep}); err != nil {
			log.Printf("report publish error: %v", err)
		}

	case logic.ActionErase:
		events, err := d.ctrl.Erase(t)
		if err != nil {
			log.Printf("erase error: %v", err)
		}
		d.publishEvents(events)
	}
}

func (d loopDeps) publishEvents(events []logic.Event) {
	for _, event := range events {
		switch event.Type {
		case logic.EventSampleStored:
			log.Printf("event: %s (%d,%d) index=%d count=%d", event.Type, event.Reading.A, event.Reading.B, event.Index, event.Count)
			if d.tracker != nil {
				d.tracker.SetLastReading(event.Reading)
			}
			if d.exporter != nil {
				d.exporter.WriteSample(event.Reading, event.Index, event.Timestamp)
			}
		default:
			log.Printf("event: %s count=%d %s", event.Type, event.Count, event.Detail)
		}
		if err := d.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
}

func printStoreState(path string, capacity int) error {
	st, err := store.Open(path, capacity)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("count: %d\n", st.Len())
	if n := st.Len(); n > 0 {
		r, err := st.Get(n - 1)
		if err != nil {
			return fmt.Errorf("read last record: %w", err)
		}
		fmt.Printf("last: %d,%d\n", r.A, r.B)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
