package secret

import (
	"os"
	"strings"
)

// EnvStore implements SecretStore against environment variables, for
// Linux/Windows and headless runs where no keychain is available. Keys
// map to PAGECRAFT_SECRET_<KEY> with non-alphanumerics folded to
// underscores. Set and Delete affect only the current process.
type EnvStore struct{}

// NewEnvStore creates a new EnvStore.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

func envName(key string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 32
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return "PAGECRAFT_SECRET_" + mapped
}

func (e *EnvStore) Set(key string, value []byte) error {
	return os.Setenv(envName(key), string(value))
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	v, ok := os.LookupEnv(envName(key))
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (e *EnvStore) Delete(key string) error {
	return os.Unsetenv(envName(key))
}
