// services/encoder/control.go
package encoder

import (
	"encoding/json"
	"time"

	"qdc-go/bus"
	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
	"qdc-go/types"
	"qdc-go/x/timex"
)

// handleControl serves encoder/<name>/control/<verb>.
func (s *service) handleControl(msg *bus.Message) {
	if msg.Topic.Len() != 4 {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	name, _ := msg.Topic.At(1).(string)
	verb, _ := msg.Topic.At(3).(string)
	d, ok := s.devices[name]
	if !ok {
		s.replyErr(msg, errcode.UnknownEncoder)
		return
	}

	res, err := s.control(d, verb, msg.Payload)
	if err != nil {
		s.replyErr(msg, errcode.Of(err))
		return
	}
	s.replyOK(msg, res)
}

func (s *service) control(d *device, verb string, payload any) (any, error) {
	switch verb {
	case "read":
		v := s.poll(d)
		if d.spec.PollMs > 0 {
			s.bumpDue(d, time.Now())
		}
		return v, nil

	case "hold":
		return types.EncoderValue{
			Counts:   d.enc.Hold(),
			Up:       d.enc.CountDirection(),
			Previous: true,
			TS:       timex.NowMs(),
		}, nil

	case "status":
		return types.EncoderFlags{
			Flags:  d.enc.Status().Names(),
			Inputs: uint8(d.enc.Inputs()),
		}, nil

	case "clear":
		var p types.EncoderClear
		if err := decodeJSON(payload, &p); err != nil {
			return nil, errcode.InvalidPayload
		}
		f := qdc.AllFlags
		if len(p.Flags) > 0 {
			f = 0
			for _, n := range p.Flags {
				fl, ok := qdc.ParseFlag(n)
				if !ok {
					return nil, &errcode.E{C: errcode.InvalidPayload, Op: "clear", Msg: "unknown flag " + n}
				}
				f |= fl
			}
		}
		d.enc.ClearFlags(f)
		d.lastFlags &^= f
		return nil, nil

	case "init":
		var p types.EncoderInit
		if err := decodeJSON(payload, &p); err != nil {
			return nil, errcode.InvalidPayload
		}
		d.enc.InitializePositionCounterToValue(p.Value)
		return nil, nil

	case "compare":
		var p types.EncoderCompare
		if err := decodeJSON(payload, &p); err != nil {
			return nil, errcode.InvalidPayload
		}
		d.enc.SetCompareValue(p.Value)
		d.enc.SetCompareInterruptEnable(p.Interrupt)
		s.publishInfo(d)
		return nil, nil

	case "configure":
		// Merge onto the registers: init, compare and test_gen write them
		// without touching d.spec.
		cfg := d.enc.Config()
		if err := decodeJSON(payload, &cfg); err != nil {
			return nil, errcode.InvalidPayload
		}
		d.enc.Configure(cfg)
		d.spec.Config = d.enc.Config()
		s.publishInfo(d)
		return d.spec.Config, nil

	case "reset":
		d.enc.Reset()
		d.lastFlags = 0
		s.publishInfo(d)
		return nil, nil

	case "test_gen":
		var p types.EncoderTestGen
		if err := decodeJSON(payload, &p); err != nil {
			return nil, errcode.InvalidPayload
		}
		// Count and period are programmed before the generator is enabled.
		d.enc.SetTestModeEnable(false)
		d.enc.SetTestCounterEnable(false)
		d.enc.SetTestPulseCount(p.Count)
		d.enc.SetTestPulsePeriod(p.Period)
		d.enc.SetTestReverseModeEnable(p.Reverse)
		d.enc.SetTestModeEnable(p.Enable)
		d.enc.SetTestCounterEnable(p.Enable)
		s.publishInfo(d)
		return nil, nil
	}
	return nil, errcode.Unsupported
}

func (s *service) replyOK(req *bus.Message, result any) {
	if !req.CanReply() {
		return
	}
	if result == nil {
		s.conn.Reply(req, types.OKReply{OK: true}, false)
		return
	}
	s.conn.Reply(req, map[string]any{"ok": true, "result": result}, false)
}

func (s *service) replyErr(req *bus.Message, c errcode.Code) {
	if !req.CanReply() {
		return
	}
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(c)}, false)
}

// decodeJSON accepts a value of type T, raw JSON, or anything that marshals
// to the shape of T.
func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case nil:
		return nil
	case T:
		*dst = v
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
