package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"sigs.k8s.io/yaml"

	"qdc-go/bus"
	"qdc-go/errcode"
	"qdc-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	keyEncoder   = "encoder"
)

type ctxKey string

// CtxDeviceKey is the context key holding the device ID.
const CtxDeviceKey ctxKey = "device"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	// Path, if set, is read instead of the embedded config.
	Path string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Parse decodes a YAML (or JSON) document into one payload per top-level
// key. The "encoder" key decodes to types.EncoderServiceConfig; other keys
// decode to plain values.
func Parse(raw []byte) (map[string]any, error) {
	var top map[string]json.RawMessage
	if err := yaml.Unmarshal(raw, &top); err != nil {
		return nil, errcode.Wrap(errcode.InvalidPayload, "parse", err)
	}
	if top == nil {
		return nil, &errcode.E{C: errcode.InvalidPayload, Op: "parse", Msg: "config is not a mapping"}
	}
	out := make(map[string]any, len(top))
	for k, v := range top {
		if k == keyEncoder {
			var ec types.EncoderServiceConfig
			if err := yaml.UnmarshalStrict(v, &ec); err != nil {
				return nil, errcode.Wrap(errcode.InvalidPayload, "parse "+k, err)
			}
			out[k] = ec
			continue
		}
		var val any
		if err := yaml.Unmarshal(v, &val); err != nil {
			return nil, errcode.Wrap(errcode.InvalidPayload, "parse "+k, err)
		}
		out[k] = val
	}
	return out, nil
}

// ParseEncoder decodes a document that holds only the encoder service
// config, with or without the top-level "encoder" key.
func ParseEncoder(raw []byte) (types.EncoderServiceConfig, error) {
	m, err := Parse(raw)
	if err != nil {
		return types.EncoderServiceConfig{}, err
	}
	if ec, ok := m[keyEncoder].(types.EncoderServiceConfig); ok {
		return ec, nil
	}
	var ec types.EncoderServiceConfig
	if err := yaml.UnmarshalStrict(raw, &ec); err != nil {
		return ec, errcode.Wrap(errcode.InvalidPayload, "parse encoder", err)
	}
	return ec, nil
}

func (s *ConfigService) load(ctx context.Context) ([]byte, error) {
	if s.Path != "" {
		return os.ReadFile(s.Path)
	}
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return nil, errors.New("missing device ID in context")
	}
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, errors.New("no embedded config for device: " + device)
	}
	return raw, nil
}

// publishConfig reads the device config and publishes each top-level key as
// a retained message on config/<key>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	raw, err := s.load(ctx)
	if err != nil {
		return err
	}
	m, err := Parse(raw)
	if err != nil {
		return err
	}
	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
			return
		}
		println("[config] published")
	}()
}
