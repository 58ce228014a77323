package qdc

import "tinygo.org/x/drivers"

// Snapshotter is the part of a Controller the Sensor reads. Every
// Controller[N] satisfies it.
type Snapshotter interface {
	Counts() Counts
	CountDirection() bool
	Status() Flags
}

// Sensor adapts a Controller to drivers.Sensor. Update(drivers.Distance)
// takes one counter snapshot; the accessors return the latched values until
// the next Update.
type Sensor struct {
	src    Snapshotter
	counts Counts
	up     bool
	flags  Flags
}

// NewSensor wraps c. The Sensor shares ownership rules with c.
func NewSensor(c Snapshotter) *Sensor {
	return &Sensor{src: c}
}

// Update implements drivers.Sensor. Measurements other than Distance are
// ignored.
func (s *Sensor) Update(which drivers.Measurement) error {
	if which&drivers.Distance == 0 {
		return nil
	}
	s.counts = s.src.Counts()
	s.up = s.src.CountDirection()
	s.flags = s.src.Status()
	return nil
}

func (s *Sensor) Counts() Counts     { return s.counts }
func (s *Sensor) Position() uint32   { return s.counts.Position }
func (s *Sensor) Revolution() uint16 { return s.counts.Revolution }
func (s *Sensor) Difference() uint16 { return s.counts.Difference }
func (s *Sensor) Up() bool           { return s.up }

// Flags returns the sticky flags seen at the last Update. They are not cleared.
func (s *Sensor) Flags() Flags { return s.flags }

var _ drivers.Sensor = (*Sensor)(nil)
