// bus/bus_test.go
package bus

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

func TestTopic_Match(t *testing.T) {
	cases := []struct {
		topic, pattern Topic
		want           bool
	}{
		{T("encoder", "spindle", "value"), T("encoder", "+", "value"), true},
		{T("encoder", "spindle", "value"), T("encoder", "#"), true},
		{T("encoder"), T("encoder", "#"), true},
		{T("encoder", "spindle"), T("encoder", "+", "value"), false},
		{T("encoder", "spindle", "value", "x"), T("encoder", "+", "value"), false},
		{T("encoder", 2, "value"), T("encoder", 2, "+"), true},
		{T("encoder", 2, "value"), T("encoder", "2", "+"), false},
		{T("config", "encoder"), T("config", "encoder"), true},
		{T("config", "encoder"), T("#"), true},
	}
	for _, tc := range cases {
		if got := tc.topic.Match(tc.pattern); got != tc.want {
			t.Errorf("%v.Match(%v) = %v, want %v", tc.topic, tc.pattern, got, tc.want)
		}
	}
}

func TestTopic_Append(t *testing.T) {
	base := T("encoder", "spindle")
	a := base.Append("control", "read")
	b := base.Append("value")
	if !slices.Equal(a, T("encoder", "spindle", "control", "read")) || !slices.Equal(b, T("encoder", "spindle", "value")) {
		t.Fatalf("Append aliased the base topic: %v %v", a, b)
	}
	if a.Len() != 4 || a.At(3) != "read" {
		t.Fatalf("Len/At = %d %v", a.Len(), a.At(3))
	}
}

func TestTopic_InvalidTokenPanics(t *testing.T) {
	for _, tok := range []any{[]byte("x"), 1.5, uint8(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("T(%T) did not panic", tok)
				}
			}()
			_ = T("encoder", tok)
		}()
	}
}

// -----------------------------------------------------------------------------
// Delivery
// -----------------------------------------------------------------------------

func TestDelivery(t *testing.T) {
	patterns := map[string]Topic{
		"exact":     T("encoder", "spindle", "value"),
		"any-name":  T("encoder", "+", "value"),
		"any-verb":  T("encoder", "spindle", "+"),
		"all-enc":   T("encoder", "#"),
		"all":       T("#"),
		"feed-only": T("encoder", "feed", "+"),
		"state":     T("encoder", "state"),
	}
	cases := []struct {
		topic Topic
		want  []string
	}{
		{T("encoder", "spindle", "value"), []string{"exact", "any-name", "any-verb", "all-enc", "all"}},
		{T("encoder", "spindle", "event"), []string{"any-verb", "all-enc", "all"}},
		{T("encoder", "feed", "value"), []string{"any-name", "all-enc", "all", "feed-only"}},
		{T("encoder", "state"), []string{"all-enc", "all", "state"}},
		{T("encoder"), []string{"all-enc", "all"}},
		{T("config", "encoder"), []string{"all"}},
	}

	for _, tc := range cases {
		b := NewBus(4)
		c := b.NewConnection("test")
		subs := map[string]*Subscription{}
		for name, p := range patterns {
			subs[name] = c.Subscribe(p)
		}
		c.Publish(b.NewMessage(tc.topic, "m", false))
		for name, sub := range subs {
			got := pending(sub)
			want := 0
			if slices.Contains(tc.want, name) {
				want = 1
			}
			if got != want {
				t.Errorf("publish %v: %s got %d messages, want %d", tc.topic, name, got, want)
			}
		}
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(T("encoder", "spindle", "value"))
	for _, p := range []string{"v1", "v2", "v3"} {
		c.Publish(b.NewMessage(T("encoder", "spindle", "value"), p, false))
	}
	if got := drain(t, s, 2); !slices.Equal(got, []string{"v2", "v3"}) {
		t.Fatalf("queue holds %v", got)
	}
}

// -----------------------------------------------------------------------------
// Retained
// -----------------------------------------------------------------------------

func TestRetained_ReplayOnSubscribe(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")
	c.Publish(b.NewMessage(T("encoder", "state"), "ready", true))
	c.Publish(b.NewMessage(T("encoder", "spindle", "info"), "spindle-info", true))
	c.Publish(b.NewMessage(T("encoder", "feed", "info"), "feed-info", true))
	c.Publish(b.NewMessage(T("encoder", "feed", "event"), "not kept", false))

	cases := []struct {
		pattern Topic
		want    []string
	}{
		{T("encoder", "state"), []string{"ready"}},
		{T("encoder", "+", "info"), []string{"feed-info", "spindle-info"}},
		{T("encoder", "#"), []string{"feed-info", "ready", "spindle-info"}},
		{T("encoder", "feed", "event"), nil},
	}
	for _, tc := range cases {
		s := c.Subscribe(tc.pattern)
		got := drain(t, s, len(tc.want))
		slices.Sort(got)
		if !slices.Equal(got, tc.want) {
			t.Errorf("subscribe %v replayed %v, want %v", tc.pattern, got, tc.want)
		}
		if n := pending(s); n != 0 {
			t.Errorf("subscribe %v: %d extra messages", tc.pattern, n)
		}
	}
}

func TestRetained_ReplacedAndCleared(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")
	topic := T("encoder", "spindle", "value")

	c.Publish(b.NewMessage(topic, "old", true))
	c.Publish(b.NewMessage(topic, "new", true))
	s := c.Subscribe(topic)
	if got := drain(t, s, 1); got[0] != "new" {
		t.Fatalf("retained = %v", got)
	}

	// The clear itself is delivered to live subscribers.
	c.Publish(b.NewMessage(topic, nil, true))
	if n := pending(s); n != 1 {
		t.Fatalf("live subscriber saw %d messages for the clear", n)
	}
	if n := pending(c.Subscribe(topic)); n != 0 {
		t.Fatalf("retained message survived the clear")
	}

	// Clearing a topic that never held anything is harmless.
	c.Publish(b.NewMessage(T("encoder", "ghost", "value"), nil, true))
	if n := pending(c.Subscribe(T("encoder", "#"))); n != 0 {
		t.Fatalf("clear created a retained message")
	}
}

// -----------------------------------------------------------------------------
// Request / reply
// -----------------------------------------------------------------------------

// responder answers every request on topic with fn(payload).
func responder(t *testing.T, b *Bus, topic Topic, fn func(any) any) {
	t.Helper()
	conn := b.NewConnection("responder")
	sub := conn.Subscribe(topic)
	t.Cleanup(conn.Disconnect)
	go func() {
		for msg := range sub.Channel() {
			conn.Reply(msg, fn(msg.Payload), false)
		}
	}()
}

func TestRequestWait(t *testing.T) {
	b := NewBus(8)
	responder(t, b, T("encoder", "+", "control", "+"), func(p any) any { return p.(int) * 2 })
	conn := b.NewConnection("requester")

	for i := 1; i <= 3; i++ {
		req := b.NewMessage(T("encoder", "spindle", "control", "read"), i, false)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		reply, err := conn.RequestWait(ctx, req)
		cancel()
		if err != nil {
			t.Fatal(err)
		}
		if reply.Payload != i*2 {
			t.Fatalf("reply %d = %v", i, reply.Payload)
		}
		if !slices.Equal(reply.Topic, req.ReplyTo) || req.ReplyTo.At(1) != "requester" {
			t.Fatalf("reply topic %v, ReplyTo %v", reply.Topic, req.ReplyTo)
		}
	}
}

func TestRequestWait_Timeout(t *testing.T) {
	b := NewBus(8)
	conn := b.NewConnection("requester")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := conn.RequestWait(ctx, b.NewMessage(T("encoder", "nobody", "control", "read"), nil, false))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestRequest_ManualSubscription(t *testing.T) {
	b := NewBus(8)
	responder(t, b, T("encoder", "spindle", "control", "status"), func(any) any {
		return map[string]any{"flags": []string{"index"}}
	})
	conn := b.NewConnection("requester")

	replies := conn.Request(b.NewMessage(T("encoder", "spindle", "control", "status"), nil, false))
	defer conn.Unsubscribe(replies)
	select {
	case m := <-replies.Channel():
		if f := m.Payload.(map[string]any)["flags"].([]string); len(f) != 1 || f[0] != "index" {
			t.Fatalf("reply = %#v", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no reply")
	}
}

func TestReplyWithoutReplyTo(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	all := c.Subscribe(T("#"))
	msg := b.NewMessage(T("encoder", "spindle", "control", "read"), nil, false)
	if msg.CanReply() {
		t.Fatal("plain message claims a reply topic")
	}
	c.Reply(msg, "ignored", false)
	if n := pending(all); n != 0 {
		t.Fatalf("Reply without ReplyTo published %d messages", n)
	}
}

// -----------------------------------------------------------------------------
// Unsubscribe / disconnect
// -----------------------------------------------------------------------------

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(T("encoder", "+", "event"))
	s.Unsubscribe()
	if _, ok := <-s.Channel(); ok {
		t.Fatal("channel still open after Unsubscribe")
	}
	// Second unsubscribe and later publishes are no-ops.
	c.Unsubscribe(s)
	c.Publish(b.NewMessage(T("encoder", "spindle", "event"), "x", false))
}

func TestUnsubscribeForeignSubscription(t *testing.T) {
	b := NewBus(4)
	owner := b.NewConnection("owner")
	other := b.NewConnection("other")
	s := owner.Subscribe(T("encoder", "state"))

	other.Unsubscribe(s)
	owner.Publish(b.NewMessage(T("encoder", "state"), "ready", false))
	if n := pending(s); n != 1 {
		t.Fatalf("subscription owned by another connection was removed")
	}
}

func TestDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("encoder", "#"))
	s2 := c.Subscribe(T("config", "encoder"))
	c.Disconnect()
	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("%v still open after Disconnect", s.Topic())
		}
	}
	// The trie no longer delivers to them.
	b.Publish(b.NewMessage(T("encoder", "state"), "x", false))
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

// pending drains and counts the messages already queued on sub.
func pending(sub *Subscription) int {
	n := 0
	for {
		select {
		case _, ok := <-sub.Channel():
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

// drain reads n string payloads from sub.
func drain(t *testing.T, sub *Subscription, n int) []string {
	t.Helper()
	var out []string
	for len(out) < n {
		select {
		case m := <-sub.Channel():
			s, ok := m.Payload.(string)
			if !ok {
				t.Fatalf("non-string payload %#v", m.Payload)
			}
			out = append(out, s)
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("got %d of %d messages on %v: %v", len(out), n, sub.Topic(), out)
		}
	}
	return out
}
