// Package envconf fills configuration structs from the environment.
//
// Fields are described with `env:"NAME"` tags. A field without an
// `envDefault` tag is required; nested structs are walked recursively.
package envconf

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidDestination = errors.New("destination must be a non-nil pointer to a struct")

func Load(dst any) error {
	return LoadFrom(dst, nil)
}

// LoadFrom is Load with an explicit variable set. A nil environment falls
// back to the process environment.
func LoadFrom(dst any, environment map[string]string) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidDestination
	}

	err := env.ParseWithOptions(dst, env.Options{
		Environment:     environment,
		RequiredIfNoDef: true,
	})
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
