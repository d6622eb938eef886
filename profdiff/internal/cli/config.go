package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/parse"
	"github.com/yandex/profdiff/profdiff/internal/report"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	LogLevel  string                              `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HotPolicy experiment.HotCompilationUnitPolicy `yaml:"hot_policy"`
	Report    report.Options                      `yaml:"report"`
	Profile   parse.ProfileOptions                `yaml:"profile"`
	// Jobs limits the number of compilations loaded in parallel.
	Jobs int `yaml:"jobs" validate:"gte=0"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		HotPolicy: experiment.DefaultHotCompilationUnitPolicy(),
		Report:    report.DefaultOptions(),
	}
}

// ParseConfig reads a YAML config. Fields missing from the file keep their default values.
func ParseConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	conf := DefaultConfig()
	err = yaml.NewDecoder(file).Decode(conf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return conf, nil
}

func (c *Config) fillDefault() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}
}

func (c *Config) Validate() error {
	if err := c.HotPolicy.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
