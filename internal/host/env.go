// Package host provides the environment and filesystem collaborators used
// when resolving env: and file: references.
package host

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env looks up environment variables.
type Env interface {
	LookupEnv(name string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnv is a fixed environment, mostly useful in tests.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Overlay consults Primary first and falls back to Defaults.
type Overlay struct {
	Primary  Env
	Defaults Env
}

func (o Overlay) LookupEnv(name string) (string, bool) {
	if v, ok := o.Primary.LookupEnv(name); ok {
		return v, true
	}
	return o.Defaults.LookupEnv(name)
}

// WithDotenv layers the given dotenv files under primary: variables set in
// primary win, the files only fill in missing names. Later files override
// earlier ones.
func WithDotenv(primary Env, paths ...string) (Env, error) {
	merged := MapEnv{}
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", p, err)
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	return Overlay{Primary: primary, Defaults: merged}, nil
}
