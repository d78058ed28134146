package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"miniseq/internal/alphabet"
	"miniseq/internal/fasta"
)

type Config struct {
	InputFasta       string `mapstructure:"input_fasta"`
	Output           string `mapstructure:"output"`
	LogFile          string `mapstructure:"log_file"`
	LogLevel         string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Force            string `mapstructure:"force" validate:"omitempty,oneof=protein dna rna sequence"`
	LineWidth        int    `mapstructure:"line_width" validate:"gte=0"`
	DropUnclassified bool   `mapstructure:"drop_unclassified"`
	ListenAddr       string `mapstructure:"listen_addr" validate:"required"`
}

var validate = validator.New()

func defaults(v *viper.Viper) {
	v.SetDefault("input_fasta", "")
	v.SetDefault("output", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("force", "")
	v.SetDefault("line_width", fasta.DefaultLineWidth)
	v.SetDefault("drop_unclassified", false)
	v.SetDefault("listen_addr", ":8080")
}

// LoadConfig loads configuration from the given path. If path is empty, looks
// for ./config.json (or any format viper understands, e.g. config.yaml). A
// missing file is not fatal: defaults are returned. MINISEQ_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("miniseq")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ForceVariant returns the configured forced variant, or nil for auto-detect.
func (c *Config) ForceVariant() (*alphabet.Variant, error) {
	if c.Force == "" {
		return nil, nil
	}
	v, err := alphabet.ParseVariant(c.Force)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
