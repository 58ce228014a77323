package main

import (
	"context"
	"time"

	"qdc-go/bus"
	"qdc-go/services/config"
	"qdc-go/services/encoder"
	"qdc-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(bootDelay)
	println("[main] boot", deviceID)

	b := bus.NewBus(16)
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	go encoder.Run(ctx, b.NewConnection("encoder"), encoder.DefaultFactory())
	(&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	conn := b.NewConnection("main")
	state := conn.Subscribe(bus.T("encoder", "state"))
	events := conn.Subscribe(bus.T("encoder", "+", "event"))
	values := conn.Subscribe(bus.T("encoder", "+", "value"))

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()

	var last = map[string]any{}
	for {
		select {
		case m := <-state.Channel():
			println("[main] encoder state:", stateString(m.Payload))
		case m := <-events.Channel():
			name, _ := m.Topic.At(1).(string)
			println("[main]", name, "event", eventString(m.Payload))
		case m := <-values.Channel():
			name, _ := m.Topic.At(1).(string)
			last[name] = m.Payload
		case t := <-tick.C:
			for name, v := range last {
				println("[main]", t.Format("15:04:05"), name, valueString(v))
			}
		}
	}
}
