package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/target-drill/internal/banner"
	"github.com/CodexForgeBR/target-drill/internal/cli"
	"github.com/CodexForgeBR/target-drill/internal/config"
	"github.com/CodexForgeBR/target-drill/internal/countdown"
	"github.com/CodexForgeBR/target-drill/internal/display"
	"github.com/CodexForgeBR/target-drill/internal/exitcode"
	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/notification"
	"github.com/CodexForgeBR/target-drill/internal/operator"
	"github.com/CodexForgeBR/target-drill/internal/report"
	"github.com/CodexForgeBR/target-drill/internal/sensor"
	"github.com/CodexForgeBR/target-drill/internal/sensor/serialport"
	"github.com/CodexForgeBR/target-drill/internal/sensor/simulated"
	"github.com/CodexForgeBR/target-drill/internal/sequence"
	"github.com/CodexForgeBR/target-drill/internal/session"
	sighandler "github.com/CodexForgeBR/target-drill/internal/signal"
	"github.com/CodexForgeBR/target-drill/internal/state"
)

// Simulated reaction bounds for --sensor demo; shortened in tests.
var (
	demoMinReaction = 350 * time.Millisecond
	demoMaxReaction = 1200 * time.Millisecond
)

// countdownStep is the wall time of one countdown count.
var countdownStep = time.Second

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func stdStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// loadConfig merges every configuration layer. CLI flags are already bound
// to cfg; only the ones the user changed override lower layers.
func loadConfig(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	finalCfg, err := config.LoadWithPrecedence(
		config.GlobalConfigPath(),
		config.ProjectConfigPath,
		cfg.ConfigFile,
		cli.BuildOverrides(cmd, cfg),
	)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile
	finalCfg.Status = cfg.Status
	return finalCfg, nil
}

func runDrill(cmd *cobra.Command, flagCfg *config.Config, std streams) (int, error) {
	cfg, err := loadConfig(cmd, flagCfg)
	if err != nil {
		return exitcode.Error, err
	}

	logging.SetVerbose(cfg.Verbose)

	// Machine-readable output owns stdout; everything human goes to stderr.
	human := std.out
	if cfg.Output != config.OutputText && !cfg.Status {
		human = std.errOut
	}
	banner.SetOutput(human)
	defer banner.SetOutput(nil)

	if cfg.Status {
		return showStatus(cfg.SnapshotFile)
	}

	if err := cfg.Validate(); err != nil {
		return exitcode.Error, err
	}

	counts := cfg.Counts()
	if counts.Total() == 0 {
		logging.Warn("All repeat counts are zero; the session will complete immediately")
	}

	source, seed, err := sequence.NewSource(cfg.Seed)
	if err != nil {
		return exitcode.Error, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sens, sensorDesc, closeSensor, err := buildSensor(ctx, cfg, seed)
	if err != nil {
		return exitcode.Error, err
	}
	defer closeSensor()

	observers := []session.Observer{display.NewBoard(human)}
	if cfg.SnapshotFile != "" {
		observers = append(observers, &state.Recorder{Path: cfg.SnapshotFile})
	}

	machine := session.New(session.Config{
		Counts: counts,
		Source: source,
		Poller: &sensor.Poller{
			Sensor:      sens,
			MinInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		},
		Observers: observers,
	})

	banner.PrintStartupBanner(machine.ID(), sensorDesc, counts, seed)

	var interrupted atomic.Bool
	stopSignals := sighandler.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
		interrupted.Store(true)
		logging.Warn(fmt.Sprintf("Received %s, stopping session", sig))
		machine.Stop()
	})
	defer stopSignals()

	if err := countdown.Run(ctx, cfg.Countdown, countdownStep, human); err != nil {
		machine.Stop()
	} else if err := machine.Start(ctx); err != nil && !errors.Is(err, session.ErrAlreadyStarted) {
		return exitcode.Error, err
	}

	go operator.Loop(ctx, std.in, human, machine, machine.Done())

	res, defect := machine.Wait(context.Background())
	stopSignals()

	code := exitcode.ForSession(res.Stopped, interrupted.Load(), defect)

	banner.PrintResultBanner(res)
	if cfg.Output != config.OutputText {
		if err := report.Write(std.out, cfg.Output, report.New(res, counts, seed, defect)); err != nil {
			return exitcode.Error, err
		}
	}
	if defect != nil {
		banner.PrintDefectBanner(defect)
	} else if interrupted.Load() {
		banner.PrintInterruptedBanner(len(res.Legs))
	}

	notification.SendNotification(cfg.NotifyWebhook, cfg.NotifyChannel, cfg.NotifyChatID,
		notification.FormatEvent(notification.EventFor(res, interrupted.Load(), defect), res, code))

	logging.Debug(fmt.Sprintf("Session %s finished with exit code %d (%s)", res.SessionID, code, exitcode.Name(code)))
	return code, nil
}

// buildSensor returns the configured sensor, a short description for the
// startup banner, and a function releasing it.
func buildSensor(ctx context.Context, cfg *config.Config, seed int64) (sensor.Sensor, string, func(), error) {
	switch cfg.Sensor {
	case config.SensorSerial:
		s, err := serialport.Open(ctx, serialport.Config{
			PortName:    cfg.SerialPort,
			BaudRate:    cfg.BaudRate,
			ReadTimeout: time.Duration(cfg.ReadTimeoutMs) * time.Millisecond,
			Retry:       serialport.RetryConfig{MaxRetries: cfg.OpenRetries},
		})
		if err != nil {
			return nil, "", nil, err
		}
		closeFn := func() {
			if err := s.Close(); err != nil {
				logging.Debug("Close serial port: " + err.Error())
			}
		}
		return s, fmt.Sprintf("serial (%s @ %d baud)", cfg.SerialPort, cfg.BaudRate), closeFn, nil
	default:
		rng := rand.New(rand.NewSource(seed + 1))
		s := simulated.New(rng, simulated.Config{
			MinReaction: demoMinReaction,
			MaxReaction: demoMaxReaction,
		})
		return s, "demo (simulated)", func() {}, nil
	}
}

func showStatus(path string) (int, error) {
	if path == "" {
		return exitcode.Error, errors.New("--status requires --snapshot-file (or SNAPSHOT_FILE)")
	}
	f, err := state.LoadSnapshot(path)
	if err != nil {
		return exitcode.Error, err
	}
	banner.PrintStatusBanner(f.Snapshot)
	if f.Result != nil {
		banner.PrintResultBanner(*f.Result)
	}
	return exitcode.Success, nil
}

func printPorts(w io.Writer, ports []string) {
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found")
		return
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
}
