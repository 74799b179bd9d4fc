package replay

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the construction parameters of a Processor, loadable from
// environment variables.
//
// BufferSize is the segment size when Unbounded is true and the retention
// limit otherwise.
type Config struct {
	BufferSize int  `env:"REPLAY_BUFFER_SIZE" envDefault:"16"`
	Unbounded  bool `env:"REPLAY_UNBOUNDED" envDefault:"false"`
}

// LoadConfig parses Config from environment variables, loading a .env file
// first when one is present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return cfg, nil
}
