// services/encoder/controller.go
package encoder

import "qdc-go/drivers/qdc"

// Factories park released peripherals as opaque tokens: a qdc.Peripheral[N]
// for the N the token was taken for. Only these helpers look inside.

// NewController instantiates the Controller type matching instance over rf.
// Instances outside 1..3 map to ENC4.
func NewController(instance uint8, rf qdc.RegisterFile) Encoder {
	return fromToken(peripheral(instance, rf))
}

func peripheral(instance uint8, rf qdc.RegisterFile) any {
	switch instance {
	case 1:
		return qdc.NewPeripheral[qdc.ENC1](rf)
	case 2:
		return qdc.NewPeripheral[qdc.ENC2](rf)
	case 3:
		return qdc.NewPeripheral[qdc.ENC3](rf)
	default:
		return qdc.NewPeripheral[qdc.ENC4](rf)
	}
}

// fromToken takes ownership of a parked peripheral. It returns nil for
// anything that is not a peripheral token.
func fromToken(tok any) Encoder {
	switch p := tok.(type) {
	case qdc.Peripheral[qdc.ENC1]:
		return qdc.New(p)
	case qdc.Peripheral[qdc.ENC2]:
		return qdc.New(p)
	case qdc.Peripheral[qdc.ENC3]:
		return qdc.New(p)
	case qdc.Peripheral[qdc.ENC4]:
		return qdc.New(p)
	}
	return nil
}

// release ends enc's ownership of its instance and returns the peripheral
// token, or nil if enc was already released. enc must not be used afterwards.
func release(enc Encoder) any {
	switch c := enc.(type) {
	case *qdc.QDC1:
		return releaseTyped(c)
	case *qdc.QDC2:
		return releaseTyped(c)
	case *qdc.QDC3:
		return releaseTyped(c)
	case *qdc.QDC4:
		return releaseTyped(c)
	}
	return nil
}

func releaseTyped[N qdc.Instance](c *qdc.Controller[N]) any {
	p := c.Release()
	if !p.Valid() {
		return nil
	}
	return p
}
