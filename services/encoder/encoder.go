// services/encoder/encoder.go
package encoder

import (
	"context"
	"time"

	"tinygo.org/x/drivers"

	"qdc-go/bus"
	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
	"qdc-go/types"
	"qdc-go/x/mathx"
	"qdc-go/x/timex"
)

const (
	minPollMs = 10
	maxPollMs = 3_600_000
)

// Encoder is the instance-independent method set of a qdc.Controller.
type Encoder interface {
	Instance() uint8
	Configure(cfg qdc.Config)
	Config() qdc.Config
	Reset()

	Counts() qdc.Counts
	Hold() qdc.Counts
	CountDirection() bool
	Inputs() qdc.Inputs

	Status() qdc.Flags
	ClearFlags(f qdc.Flags)

	InitializePositionCounterToValue(value uint32)
	SetCompareValue(value uint32)
	SetCompareInterruptEnable(enable bool)

	SetTestPulseCount(value uint16)
	SetTestPulsePeriod(value uint16)
	SetTestReverseModeEnable(enable bool)
	SetTestModeEnable(enable bool)
	SetTestCounterEnable(enable bool)
}

// Factory hands out controllers for peripheral instances 1..4. An instance
// is owned by at most one caller between Open and Close. Close releases the
// controller, which must not be used afterwards, and keeps its peripheral
// for the next Open of that instance.
type Factory interface {
	Open(instance uint8) (Encoder, error)
	Close(enc Encoder)
}

// -----------------------------------------------------------------------------
// Entry point
// -----------------------------------------------------------------------------

// Run owns every opened controller until ctx is cancelled. All access to the
// controllers happens on the calling goroutine.
func Run(ctx context.Context, conn *bus.Connection, f Factory) {
	s := &service{
		conn:    conn,
		factory: f,
		devices: map[string]*device{},
	}
	s.loop(ctx)
}

type device struct {
	name      string
	spec      types.EncoderSpec
	enc       Encoder
	sensor    *qdc.Sensor
	due       time.Time
	lastFlags qdc.Flags
}

type service struct {
	conn    *bus.Connection
	factory Factory
	devices map[string]*device
	timer   *time.Timer
}

// -----------------------------------------------------------------------------
// Main loop
// -----------------------------------------------------------------------------

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.T("config", "encoder"))
	ctrlSub := s.conn.Subscribe(bus.T("encoder", "+", "control", "+"))
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishState("idle", "awaiting_config", nil)

	s.timer = time.NewTimer(time.Hour)

	for {
		rearm(s.timer, s.earliestDue())

		select {
		case <-ctx.Done():
			s.stop("context_cancelled")
			return

		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.stop("disconnected")
				return
			}
			var cfg types.EncoderServiceConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			if err := s.applyConfig(cfg); err != nil {
				s.publishState("error", "apply_config_failed", err)
				continue
			}
			s.publishState("ready", "configured", nil)

		case msg, ok := <-ctrlSub.Channel():
			if !ok {
				s.stop("disconnected")
				return
			}
			s.handleControl(msg)

		case <-s.timer.C:
			now := time.Now()
			for _, d := range s.devices {
				if !d.due.IsZero() && !now.Before(d.due) {
					s.poll(d)
					s.bumpDue(d, now)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// applyConfig opens, reconfigures and closes encoders to match cfg. Encoders
// that are dropped or moved to another instance are closed first so that
// their instances can be reused. An entry that cannot be applied is skipped;
// the first such error is returned after the rest have been applied.
func (s *service) applyConfig(cfg types.EncoderServiceConfig) error {
	var first error
	fail := func(err error) {
		if first == nil {
			first = err
		}
	}

	var specs []types.EncoderSpec
	seen := map[string]struct{}{}
	for _, spec := range cfg.Encoders {
		if spec.Name == "" || spec.Name == "state" {
			fail(&errcode.E{C: errcode.InvalidParams, Op: "apply", Msg: "invalid encoder name " + spec.Name})
			continue
		}
		if _, dup := seen[spec.Name]; dup {
			fail(&errcode.E{C: errcode.InvalidParams, Op: "apply", Msg: "duplicate encoder name " + spec.Name})
			continue
		}
		seen[spec.Name] = struct{}{}
		specs = append(specs, spec)
	}

	for name, d := range s.devices {
		if _, ok := seen[name]; !ok {
			s.remove(d)
		}
	}
	for _, spec := range specs {
		if d, ok := s.devices[spec.Name]; ok && d.spec.Instance != spec.Instance {
			s.remove(d)
		}
	}

	for _, spec := range specs {
		d, ok := s.devices[spec.Name]
		if !ok {
			enc, err := s.factory.Open(spec.Instance)
			if err != nil {
				println("[encoder]", spec.Name, "open failed:", err.Error())
				s.pubRet(encTopic(spec.Name, "status"), types.EncoderStatus{
					Link: types.LinkDown, TS: timex.NowMs(), Error: string(errcode.Of(err)),
				})
				fail(&errcode.E{C: errcode.Of(err), Op: "open " + spec.Name, Err: err})
				continue
			}
			d = &device{name: spec.Name, enc: enc, sensor: qdc.NewSensor(enc)}
			s.devices[spec.Name] = d
			println("[encoder]", spec.Name, "opened ENC", spec.Instance)
		}

		d.spec = spec
		d.enc.Configure(spec.Config)
		d.lastFlags = 0
		s.publishInfo(d)
		s.pubRet(encTopic(d.name, "status"), types.EncoderStatus{Link: types.LinkUp, TS: timex.NowMs()})

		if spec.PollMs > 0 {
			d.due = time.Now()
		} else {
			d.due = time.Time{}
		}
	}
	return first
}

// remove closes d and withdraws its retained topics.
func (s *service) remove(d *device) {
	s.factory.Close(d.enc)
	d.enc, d.sensor = nil, nil
	delete(s.devices, d.name)
	s.pubRet(encTopic(d.name, "info"), nil)
	s.pubRet(encTopic(d.name, "value"), nil)
	s.pubRet(encTopic(d.name, "status"), types.EncoderStatus{Link: types.LinkDown, TS: timex.NowMs()})
	println("[encoder]", d.name, "closed")
}

// stop closes every encoder and reports the service stopped.
func (s *service) stop(reason string) {
	for _, d := range s.devices {
		s.remove(d)
	}
	s.publishState("stopped", reason, nil)
}

func (s *service) publishInfo(d *device) {
	s.pubRet(encTopic(d.name, "info"), types.EncoderInfo{
		Name:     d.name,
		Instance: d.spec.Instance,
		PollMs:   d.spec.PollMs,
		Config:   d.enc.Config(),
	})
}

// -----------------------------------------------------------------------------
// Polling
// -----------------------------------------------------------------------------

// poll takes one snapshot, publishes it and reports newly seen flags.
func (s *service) poll(d *device) types.EncoderValue {
	_ = d.sensor.Update(drivers.Distance)
	v := types.EncoderValue{Counts: d.sensor.Counts(), Up: d.sensor.Up(), TS: timex.NowMs()}
	s.pubRet(encTopic(d.name, "value"), v)

	flags := d.sensor.Flags()
	if flags != 0 && (flags != d.lastFlags || d.spec.AutoClear) {
		ev := types.EncoderEvent{Flags: flags.Names(), TS: v.TS}
		if d.spec.AutoClear {
			d.enc.ClearFlags(flags)
			ev.Cleared = true
			flags = 0
		}
		s.conn.Publish(s.conn.NewMessage(encTopic(d.name, "event"), ev, false))
	}
	d.lastFlags = flags
	return v
}

func (s *service) bumpDue(d *device, from time.Time) {
	if d.spec.PollMs == 0 {
		d.due = time.Time{}
		return
	}
	ms := mathx.Clamp(d.spec.PollMs, minPollMs, maxPollMs)
	d.due = from.Add(time.Duration(ms) * time.Millisecond)
}

func (s *service) earliestDue() time.Time {
	var min time.Time
	for _, d := range s.devices {
		if !d.due.IsZero() && (min.IsZero() || d.due.Before(min)) {
			min = d.due
		}
	}
	return min
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *service) publishState(level, status string, err error) {
	st := types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}
	if err != nil {
		println("[encoder]", level, status, err.Error())
		st.Status = status + ": " + string(errcode.Of(err))
	}
	s.pubRet(bus.T("encoder", "state"), st)
}

// rearm points t at due, or an hour out when nothing is due. Stale ticks are
// drained first.
func rearm(t *time.Timer, due time.Time) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	d := time.Hour
	if !due.IsZero() {
		d = max(time.Until(due), 0)
	}
	t.Reset(d)
}

func (s *service) pubRet(t bus.Topic, p any) {
	s.conn.Publish(s.conn.NewMessage(t, p, true))
}

func encTopic(name string, rest ...any) bus.Topic {
	return bus.T("encoder", name).Append(rest...)
}
