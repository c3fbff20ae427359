package session

import (
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Restore rebuilds a session from snap. Fields are decoded into the type of the matching
// entry in defaults, so snapshots that went through JSON come back with their
// structs, slices and timestamps intact. Fields without a default are kept as stored.
func Restore(snap *domain.Snapshot, defaults map[string]any) (*domain.Session, error) {
	if snap == nil {
		return nil, domain.ErrSessionNotFound
	}
	fields := make(map[string]any, len(snap.Fields))
	for name, raw := range snap.Fields {
		def, ok := defaults[name]
		if !ok || def == nil || raw == nil {
			fields[name] = raw
			continue
		}
		v, err := decodeAs(raw, reflect.TypeOf(def))
		if err != nil {
			return nil, fmt.Errorf("failed to restore field %q of session %s: %w", name, snap.ID, err)
		}
		fields[name] = v
	}
	return domain.FromSnapshot(*snap, defaults, fields), nil
}

func decodeAs(raw any, typ reflect.Type) (any, error) {
	target := reflect.New(typ)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}
