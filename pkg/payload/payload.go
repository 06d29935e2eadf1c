package payload

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// New builds a current-version envelope.
func New(exerciseID, problemID string, item domain.ItemID, source domain.Location) domain.Envelope {
	return domain.Envelope{
		Version:  domain.EnvelopeVersion,
		Exercise: exerciseID,
		Problem:  problemID,
		Item:     item,
		Source:   source,
	}
}

// Encode serializes an envelope for transport.
func Encode(env domain.Envelope) ([]byte, error) {
	if err := Validate(env); err != nil {
		return nil, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// Decode parses a transported envelope.
// Unknown keys, wrong types and missing fields are rejected with an error
// wrapping domain.ErrMalformedPayload.
func Decode(raw []byte) (domain.Envelope, error) {
	var env domain.Envelope
	if len(raw) == 0 {
		return env, fmt.Errorf("%w: empty payload", domain.ErrMalformedPayload)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &env,
		DecodeHook:  wholeNumberHook,
	})
	if err != nil {
		return env, fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if err := Validate(env); err != nil {
		return env, err
	}
	return env, nil
}

// Validate checks the structural rules of an envelope.
func Validate(env domain.Envelope) error {
	if env.Version != domain.EnvelopeVersion {
		return fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedPayload, env.Version)
	}
	if env.Item == "" {
		return fmt.Errorf("%w: missing item", domain.ErrMalformedPayload)
	}
	switch env.Source.Kind {
	case domain.LocationBank:
		if env.Source.Zone != "" {
			return fmt.Errorf("%w: bank source cannot name a zone", domain.ErrMalformedPayload)
		}
	case domain.LocationZone:
		if env.Source.Zone == "" {
			return fmt.Errorf("%w: zone source without zone id", domain.ErrMalformedPayload)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrMalformedPayload, env.Source.Kind)
	}
	return nil
}

// wholeNumberHook lets JSON numbers (float64) decode into int fields only when they carry no fraction.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	f := data.(float64)
	if f != float64(int(f)) {
		return nil, fmt.Errorf("expected a whole number, got %v", f)
	}
	return int(f), nil
}
