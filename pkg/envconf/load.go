// Package envconf fills config structs from the process environment.
//
// Values from .env files are loaded first without overriding variables that
// are already set, then dst is parsed with caarlos0/env. Nested structs are
// walked; fields use `env`, `envDefault` and `env:",required"` tags.
package envconf

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidDestination = errors.New("destination must be a non-nil pointer to a struct")

// Load reads the given dotenv files, or ".env" when none are given, and
// parses the environment into dst. Missing dotenv files are skipped.
func Load(dst any, files ...string) error {
	v := reflect.ValueOf(dst)
	if dst == nil || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidDestination
	}

	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		_, err := os.Stat(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		err = godotenv.Load(f)
		if err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	err := env.Parse(dst)
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
