//go:build !mimxrt1062

package main

const (
	deviceID  = "host"
	bootDelay = 0
)
