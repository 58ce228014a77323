package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw YAML bytes for that device
// -----------------------------------------------------------------------------

const cfgHost = `
heartbeat:
  interval: 10
encoder:
  encoders:
    - name: spindle
      instance: 1
      poll_ms: 100
      config:
        filter:
          prescaler: 4
          sample_count: 5
          sample_period: 10
        index:
          interrupt: true
        watchdog:
          enable: true
          timeout_cycles: 10000
    - name: feed
      instance: 2
      poll_ms: 250
      auto_clear: true
      config:
        reverse_counting: true
        compare:
          value: 4096
          interrupt: true
`

const cfgTeensy41 = `
heartbeat:
  interval: 5
encoder:
  encoders:
    - name: spindle
      instance: 1
      poll_ms: 50
      config:
        filter:
          prescaler: 8
          sample_count: 6
          sample_period: 20
        index:
          initialize_position: true
          interrupt: true
        modulus:
          enable: true
          value: 4095
          revolution_on_roll: true
`

var embeddedConfigs = map[string][]byte{
	"host":     []byte(cfgHost),
	"teensy41": []byte(cfgTeensy41),
}
