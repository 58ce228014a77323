// services/encoder/factories_host.go
//go:build !mimxrt1062

package encoder

import (
	"sync"

	"qdc-go/drivers/qdc/qdcsim"
	"qdc-go/errcode"
	"qdc-go/x/mathx"
)

// SimFactory backs every instance with a qdcsim.Sim. The simulators outlive
// Open/Close so that state survives reconfiguration, as hardware would.
type SimFactory struct {
	mu     sync.Mutex
	sims   map[uint8]*qdcsim.Sim
	tokens map[uint8]any // released peripherals, by instance
	issued map[uint8]bool
}

func NewSimFactory() *SimFactory {
	return &SimFactory{
		sims:   map[uint8]*qdcsim.Sim{},
		tokens: map[uint8]any{},
		issued: map[uint8]bool{},
	}
}

func (f *SimFactory) Open(instance uint8) (Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !mathx.Between(instance, 1, 4) {
		return nil, errcode.UnknownInstance
	}
	if f.issued[instance] {
		return nil, errcode.InstanceInUse
	}
	tok, ok := f.tokens[instance]
	if !ok {
		tok = peripheral(instance, f.simLocked(instance))
	}
	delete(f.tokens, instance)
	f.issued[instance] = true
	return fromToken(tok), nil
}

// Close releases enc and parks its peripheral for the next Open.
func (f *SimFactory) Close(enc Encoder) {
	n := enc.Instance()
	tok := release(enc)
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.issued[n] || tok == nil {
		return
	}
	f.tokens[n] = tok
	delete(f.issued, n)
}

// Sim exposes the simulator behind instance for stimulus in tests and demos.
func (f *SimFactory) Sim(instance uint8) *qdcsim.Sim {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.simLocked(instance)
}

func (f *SimFactory) simLocked(instance uint8) *qdcsim.Sim {
	s, ok := f.sims[instance]
	if !ok {
		s = qdcsim.New()
		f.sims[instance] = s
	}
	return s
}

// DefaultFactory provides simulated instances on the host.
func DefaultFactory() Factory { return NewSimFactory() }
