// Command uv-beacon samples an analog UV sensor and advertises the UV index
// in the names of a Bluetooth LE beacon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/adc"
	"github.com/sweeney/uv-beacon/internal/beacon"
	"github.com/sweeney/uv-beacon/internal/config"
	"github.com/sweeney/uv-beacon/internal/gpio"
	"github.com/sweeney/uv-beacon/internal/logic"
	"github.com/sweeney/uv-beacon/internal/mqtt"
	"github.com/sweeney/uv-beacon/internal/radio"
	"github.com/sweeney/uv-beacon/internal/sampler"
	"github.com/sweeney/uv-beacon/internal/status"
	"github.com/sweeney/uv-beacon/internal/web"
)

// startTimeout bounds radio bring-up.
const startTimeout = 30 * time.Second

func main() {
	flagged := config.Default()
	flagged.BindFlags(flag.CommandLine)
	configPath := flag.String("config", "", "YAML configuration file")
	printReading := flag.Bool("print-reading", false, "Print one reading and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	config.MergeFlags(flag.CommandLine, &cfg, flagged)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := configureLogging(cfg.LogLevel); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printReading); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func configureLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

func run(cfg config.Config, printOnly bool) error {
	// Initialize ADC
	reader := adc.NewIIOReader(cfg.ADC.Device)
	if !reader.IsReady() {
		return fmt.Errorf("adc %s: %w", cfg.ADC.Device, adc.ErrNotReady)
	}
	if err := reader.Setup(adc.ChannelConfig{Channel: cfg.ADC.Channel}); err != nil {
		return fmt.Errorf("init adc: %w", err)
	}

	// Print reading mode
	if printOnly {
		return printReading(os.Stdout, reader, time.Now())
	}

	// Initialize beacon
	scheme, err := cfg.BuildScheme()
	if err != nil {
		return err
	}
	rad, err := radio.New(cfg.Radio.Backend, cfg.Radio.Device, cfg.Radio.Interval)
	if err != nil {
		return err
	}
	defer rad.Close()

	ctrl := beacon.NewController(rad, scheme, cfg.DeviceName)
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	err = ctrl.Start(ctx)
	cancel()
	if err != nil {
		// Keep sampling so MQTT and HTTP still see readings.
		log.Errorf("bluetooth init failed: %v", err)
	}

	// Initialize status LED
	var led gpio.Indicator
	if cfg.LED.Pin != gpio.PinDisabled {
		ind, err := gpio.NewRealIndicator(cfg.LED.Pin)
		if err != nil {
			log.Warnf("status LED disabled: %v", err)
		} else {
			led = ind
			defer ind.Close()
		}
	}

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			log.Warnf("mqtt disabled: %v", err)
		} else {
			publisher, mqttStatus = pub, pub
			defer pub.Close()
		}
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		DeviceName:   cfg.DeviceName,
		PeriodMs:     cfg.Period.Milliseconds(),
		HeartbeatMs:  cfg.Heartbeat.Milliseconds(),
		Scheme:       cfg.Scheme,
		RadioBackend: cfg.Radio.Backend,
		ADCDevice:    cfg.ADC.Device,
		ADCChannel:   cfg.ADC.Channel,
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
	})
	tracker.Update(beaconInfo(ctrl), nil, status.Counts{})

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Errorf("failed to publish startup event: %v", err)
		} else {
			log.Infof("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Infof("started: period=%v scheme=%s radio=%s adc=%s/%d heartbeat=%v",
		cfg.Period, scheme, cfg.Radio.Backend, cfg.ADC.Device, cfg.ADC.Channel, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Period)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		sampler:    sampler.New(reader, ctrl),
		beacon:     ctrl,
		led:        led,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		heartbeat:  cfg.Heartbeat,
		now:        time.Now,
	}, ticker.C, sigCh)
}

// loopDeps collects what runLoop drives. led, publisher, mqttStatus and
// tracker may be nil when the matching feature is disabled.
type loopDeps struct {
	sampler    *sampler.Sampler
	beacon     *beacon.Controller
	led        gpio.Indicator
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	now        func() time.Time
}

func runLoop(d loopDeps, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := d.now()
	var counts status.Counts
	var ledOn, ledSet bool

	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishStatus(d, "SHUTDOWN", signalName, true)
			return nil

		case <-tick:
			t := d.now()
			reading, err := d.sampler.Cycle(t)
			counts.Cycles++

			var produced *logic.Reading
			switch sampler.StepOf(err) {
			case sampler.StepAcquire:
				counts.AcquisitionErrors++
			case sampler.StepConvert:
				counts.ConversionSkips++
			case sampler.StepUpdate:
				if !errors.Is(err, beacon.ErrNotAdvertising) {
					counts.UpdateFailures++
				}
				produced = &reading
			default:
				produced = &reading
			}

			if produced != nil {
				counts.Readings++
				if d.publisher != nil {
					if err := d.publisher.Publish(reading); err != nil {
						log.Errorf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			// LED mirrors the advertising state.
			if d.led != nil {
				on := d.beacon.State() == beacon.StateAdvertising
				if !ledSet || on != ledOn {
					if err := d.led.Set(on); err != nil {
						log.Warnf("status LED: %v", err)
					} else {
						ledOn, ledSet = on, true
					}
				}
			}

			// Update status tracker for HTTP/MQTT consumers
			if d.tracker != nil {
				d.tracker.Update(beaconInfo(d.beacon), produced, counts)
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}

			// Check for heartbeat
			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				log.Infof("heartbeat: cycles=%d readings=%d acquisition_errors=%d conversion_skips=%d update_failures=%d",
					counts.Cycles, counts.Readings, counts.AcquisitionErrors, counts.ConversionSkips, counts.UpdateFailures)
				publishStatus(d, "HEARTBEAT", "", false)
			}
		}
	}
}

// publishStatus sends a lifecycle event carrying the current status snapshot.
func publishStatus(d loopDeps, event, reason string, retained bool) {
	if d.publisher == nil {
		return
	}
	e := mqtt.SystemEvent{
		Timestamp: d.now(),
		Event:     event,
		Reason:    reason,
		Retained:  retained,
	}
	if d.tracker != nil {
		if d.mqttStatus != nil {
			d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
		}
		e.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), event, reason)
	}
	if err := d.publisher.PublishSystem(e); err != nil {
		log.Errorf("failed to publish %s event: %v", event, err)
	} else {
		log.Debugf("published %s event", event)
	}
}

func beaconInfo(c *beacon.Controller) status.Beacon {
	complete, short := c.Names()
	return status.Beacon{State: c.State().String(), CompleteName: complete, ShortName: short}
}

// printReading takes one sample and writes it with the names it would
// advertise.
func printReading(w io.Writer, r adc.Reader, now time.Time) error {
	raw, err := r.Read()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}
	mv, err := r.RawToMillivolts(raw)
	if err != nil {
		fmt.Fprintf(w, "raw: %d, millivolts: unavailable\n", raw)
		return nil
	}
	reading := logic.NewReading(now, raw, mv)
	complete, short := logic.FormatNames(reading.UVIndex)
	fmt.Fprintf(w, "raw: %d, mV: %.0f, UV index: %.2f (%s), intensity: %.1f, names: %q / %q\n",
		raw, float64(mv), reading.UVIndex, reading.Category, reading.UVIntensity, complete, short)
	return nil
}
