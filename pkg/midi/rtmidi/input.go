// Package rtmidi connects hardware MIDI input ports to a midi.Producer.
// It is the only package that needs the cgo rtmidi driver.
package rtmidi

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/feosynth/feosynth/pkg/midi"
)

// Input listens on one hardware MIDI port and feeds a Producer.
// The driver delivers messages on its own goroutine.
type Input struct {
	drv    *rtmididrv.Driver
	port   drivers.In
	stop   func()
	logger *log.Logger
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", midi.ErrDeviceUnavailable, fmt.Sprintf(format, args...))
}

// ListPorts returns the names of the available input ports
func ListPorts() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, unavailable("%v", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return nil, unavailable("%v", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// Open connects input port number index (0 = first) to sink.
// Errors wrap midi.ErrDeviceUnavailable.
func Open(index int, sink *midi.Producer, logger *log.Logger) (*Input, error) {
	if logger == nil {
		logger = log.Default()
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, unavailable("%v", err)
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, unavailable("%v", err)
	}
	if index < 0 || index >= len(ins) {
		drv.Close()
		return nil, unavailable("port %d requested, %d available", index, len(ins))
	}

	port := ins[index]
	if err := port.Open(); err != nil {
		drv.Close()
		return nil, unavailable("open %s: %v", port, err)
	}

	in := &Input{drv: drv, port: port, logger: logger}
	stop, err := gomidi.ListenTo(port, in.receive(sink),
		gomidi.UseSysEx(),
		gomidi.HandleError(func(err error) {
			logger.Warn("midi listener error", "port", port.String(), "err", err)
		}),
	)
	if err != nil {
		port.Close()
		drv.Close()
		return nil, unavailable("listen %s: %v", port, err)
	}
	in.stop = stop

	logger.Info("midi input connected", "port", port.String())
	return in, nil
}

func (in *Input) receive(sink *midi.Producer) func(gomidi.Message, int32) {
	return func(msg gomidi.Message, timestampms int32) {
		err := sink.SendRaw(msg)
		switch {
		case err == nil:
		case errors.Is(err, midi.ErrQueueFull):
			in.logger.Debug("midi message dropped", "err", err, "ts", timestampms)
		default:
			in.logger.Debug("midi message ignored", "err", err, "raw", fmt.Sprintf("% X", []byte(msg)))
		}
	}
}

// Name returns the port name
func (in *Input) Name() string {
	return in.port.String()
}

// Close stops listening and releases the port and driver
func (in *Input) Close() error {
	if in.stop != nil {
		in.stop()
		in.stop = nil
	}
	err := in.port.Close()
	if cerr := in.drv.Close(); err == nil {
		err = cerr
	}
	in.logger.Info("midi input closed")
	return err
}
