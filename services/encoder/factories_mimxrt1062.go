// services/encoder/factories_mimxrt1062.go
//go:build mimxrt1062

package encoder

import (
	"qdc-go/drivers/qdc"
	"qdc-go/errcode"
)

// mmioFactory maps instances 1..4 to the on-chip ENC peripherals. Clock
// gating and XBAR routing of the A/B/INDEX/HOME inputs are board setup and
// must be done before Open.
type mmioFactory struct {
	taken  [5]bool
	tokens [5]any // released peripherals
	issued [5]bool
}

func take(instance uint8) any {
	switch instance {
	case 1:
		return qdc.Take[qdc.ENC1]()
	case 2:
		return qdc.Take[qdc.ENC2]()
	case 3:
		return qdc.Take[qdc.ENC3]()
	default:
		return qdc.Take[qdc.ENC4]()
	}
}

// Open takes each instance from the hardware once; later Opens reuse the
// peripheral handed back by Close.
func (f *mmioFactory) Open(instance uint8) (Encoder, error) {
	if instance < 1 || instance > 4 {
		return nil, errcode.UnknownInstance
	}
	if f.issued[instance] {
		return nil, errcode.InstanceInUse
	}
	tok := f.tokens[instance]
	if !f.taken[instance] {
		tok = take(instance)
		f.taken[instance] = true
	}
	f.tokens[instance] = nil
	f.issued[instance] = true
	return fromToken(tok), nil
}

func (f *mmioFactory) Close(enc Encoder) {
	n := enc.Instance()
	tok := release(enc)
	if n >= uint8(len(f.issued)) || !f.issued[n] || tok == nil {
		return
	}
	f.tokens[n] = tok
	f.issued[n] = false
}

// DefaultFactory provides the memory-mapped instances. It is only used from
// the service goroutine.
func DefaultFactory() Factory { return &mmioFactory{} }
