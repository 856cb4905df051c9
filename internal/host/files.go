package host

import (
	"errors"
	"io/fs"
	"os"

	homedir "github.com/mitchellh/go-homedir"
)

// Files gives the resolver read access to the filesystem.
type Files interface {
	// Expand resolves a leading "~" and $VAR / ${VAR} references in path.
	Expand(path string) (string, error)
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
}

// OSFiles reads from the local filesystem. Variables in paths are looked up
// in Env, or the process environment when Env is nil.
type OSFiles struct {
	Env Env
}

func (f OSFiles) Expand(path string) (string, error) {
	env := f.Env
	if env == nil {
		env = OSEnv{}
	}
	path = os.Expand(path, func(name string) string {
		v, _ := env.LookupEnv(name)
		return v
	})
	return homedir.Expand(path)
}

func (OSFiles) Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func (OSFiles) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
