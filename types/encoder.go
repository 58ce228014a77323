package types

import "qdc-go/drivers/qdc"

// ------------------------
// Encoder service configuration (topic "config/encoder")
// ------------------------

type EncoderServiceConfig struct {
	Encoders []EncoderSpec `json:"encoders"`
}

type EncoderSpec struct {
	Name      string     `json:"name"`                 // bus name, e.g. "spindle"
	Instance  uint8      `json:"instance"`             // 1..4
	PollMs    uint32     `json:"poll_ms,omitempty"`    // 0 => no polling
	AutoClear bool       `json:"auto_clear,omitempty"` // clear flags after publishing an event
	Config    qdc.Config `json:"config"`
}

// ------------------------
// Service state (retained)
// ------------------------

type ServiceState struct {
	Level  string `json:"level"`            // "idle", "ready", "stopped"
	Status string `json:"status,omitempty"` // short code
	TS     int64  `json:"ts_ms"`
}

// Link is the link/state reported for an encoder.
type Link string

const (
	LinkUp   Link = "up"
	LinkDown Link = "down"
)

type EncoderStatus struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"` // errcode
}

// ------------------------
// Telemetry
// ------------------------

// EncoderInfo is retained on encoder/<name>/info.
type EncoderInfo struct {
	Name     string     `json:"name"`
	Instance uint8      `json:"instance"`
	PollMs   uint32     `json:"poll_ms"`
	Config   qdc.Config `json:"config"`
}

// EncoderValue is one counter snapshot.
type EncoderValue struct {
	Counts   qdc.Counts `json:"counts"`
	Up       bool       `json:"up"`
	Previous bool       `json:"previous,omitempty"` // true when read from the hold registers
	TS       int64      `json:"ts_ms"`
}

// EncoderEvent reports sticky flags that were observed set.
type EncoderEvent struct {
	Flags   []string `json:"flags"`
	Cleared bool     `json:"cleared"`
	TS      int64    `json:"ts_ms"`
}

// ------------------------
// Control payloads
// ------------------------

type EncoderFlags struct {
	Flags  []string `json:"flags"`
	Inputs uint8    `json:"inputs"` // IMR bitmap
}

// EncoderClear names flags to clear; empty means all.
type EncoderClear struct {
	Flags []string `json:"flags,omitempty"`
}

type EncoderInit struct {
	Value uint32 `json:"value"`
}

type EncoderCompare struct {
	Value     uint32 `json:"value"`
	Interrupt bool   `json:"interrupt,omitempty"`
}

// EncoderTestGen drives the built-in test-signal generator.
type EncoderTestGen struct {
	Enable  bool   `json:"enable"`
	Count   uint16 `json:"count"`
	Period  uint16 `json:"period"`
	Reverse bool   `json:"reverse,omitempty"`
}

// ------------------------
// Generic replies
// ------------------------

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ------------------------
// Heartbeat (topic "heartbeat")
// ------------------------

type Heartbeat struct {
	UptimeS      uint32 `json:"uptime_s"`
	EncoderLevel string `json:"encoder_level"` // last encoder/state level seen
	TS           int64  `json:"ts_ms"`
}
