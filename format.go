package main

import (
	"qdc-go/types"
	"qdc-go/x/conv"
)

// Console formatting without fmt, so the MCU image stays small.

func stateString(p any) string {
	s, ok := p.(types.ServiceState)
	if !ok {
		return "?"
	}
	return s.Level + " " + s.Status
}

func eventString(p any) string {
	e, ok := p.(types.EncoderEvent)
	if !ok || len(e.Flags) == 0 {
		return "?"
	}
	s := e.Flags[0]
	for _, f := range e.Flags[1:] {
		s += "|" + f
	}
	if e.Cleared {
		s += " (cleared)"
	}
	return s
}

func valueString(p any) string {
	v, ok := p.(types.EncoderValue)
	if !ok {
		return "-"
	}
	var buf [20]byte
	s := "pos=" + string(conv.Itoa(buf[:], int64(int32(v.Counts.Position))))
	s += " (0x" + string(conv.U32Hex(buf[:], v.Counts.Position)) + ")"
	s += " rev=" + string(conv.Itoa(buf[:], int64(int16(v.Counts.Revolution))))
	s += " diff=" + string(conv.Itoa(buf[:], int64(int16(v.Counts.Difference))))
	return s
}
