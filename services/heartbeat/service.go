package heartbeat

import (
	"context"
	"time"

	"qdc-go/bus"
	"qdc-go/types"
	"qdc-go/x/mathx"
	"qdc-go/x/timex"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicEncoderState    = bus.T("encoder", "state")
	topicHeartbeat       = bus.T("heartbeat")
)

const (
	defaultInterval = time.Second
	maxIntervalSec  = 3600
)

type Service struct {
	start time.Time
	level string
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	stateSub := conn.Subscribe(topicEncoderState)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(stateSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case t := <-tick.C:
			hb := types.Heartbeat{
				UptimeS:      uint32(t.Sub(s.start) / time.Second),
				EncoderLevel: s.level,
				TS:           timex.Ms(t),
			}
			conn.Publish(conn.NewMessage(topicHeartbeat, hb, false))
			println("[heartbeat]", t.Format("15:04:05"), "encoder", s.level)
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.ServiceState); ok {
				s.level = st.Level
			}
		case msg := <-cfgSub.Channel():
			if iv, ok := interval(msg.Payload); ok {
				tick.Reset(iv)
				println("[heartbeat] interval set to", int(iv/time.Second), "seconds")
			}
		}
	}
}

// interval reads {"interval": seconds} as decoded from the config document.
func interval(p any) (time.Duration, bool) {
	m, ok := p.(map[string]any)
	if !ok {
		return 0, false
	}
	f, ok := m["interval"].(float64)
	if !ok || f < 1 {
		return 0, false
	}
	return time.Duration(mathx.Clamp(int(f), 1, maxIntervalSec)) * time.Second, true
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	s.start = time.Now()
	s.level = "unknown"
	go s.serviceLoop(ctx, conn)
	return nil
}
