package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

var DefaultEnvFiles = []string{".env", "backend/.env"}

// LoadDotEnv applies each existing file in order. godotenv never overrides
// a variable that is already set, so the shell keeps precedence and earlier
// files win over later ones.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
