package shared

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecoderConfig is the default mapstructure decoder setup: json tag
// names with weak typing, so clients sending numbers for strings still
// decode instead of erroring.
func DecoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
}

// Decode maps a map[string]any onto a Go struct.
func Decode(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(DecoderConfig(result))
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
