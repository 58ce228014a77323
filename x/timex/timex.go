package timex

import "time"

// Ms returns t as Unix milliseconds, the timestamp unit of every bus payload.
func Ms(t time.Time) int64 { return t.UnixMilli() }

// NowMs is Ms(time.Now()).
func NowMs() int64 { return Ms(time.Now()) }
