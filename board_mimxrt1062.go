//go:build mimxrt1062

package main

import "time"

const (
	deviceID  = "teensy41"
	bootDelay = 2 * time.Second
)
