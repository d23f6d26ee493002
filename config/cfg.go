package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sade/theme"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// Duration makes time.Duration usable in YAML fields ("5s", "100ms").
	Duration time.Duration

	OffloadConfig struct {
		Enable         bool     `yaml:"enable"`
		Command        string   `yaml:"command" validate:"required_unless=Enable false"`
		Args           []string `yaml:"args"`
		StartupTimeout Duration `yaml:"startup_timeout" validate:"min=0"`
	}

	StylingConfig struct {
		ColorScheme ColorScheme   `yaml:"color_scheme" validate:"oneof=0 1"`
		Theme       *theme.Theme  `yaml:"theme,omitempty"`
		ThemeFile   string        `yaml:"theme_file,omitempty" validate:"omitempty,filepath"`
		Offload     OffloadConfig `yaml:"offload"`
	}

	DocumentConfig struct {
		Placement      Placement `yaml:"placement" validate:"oneof=0 1 2"`
		BaseStylesheet string    `yaml:"base_stylesheet,omitempty" validate:"omitempty,filepath"`
		ForceCharset   string    `yaml:"force_charset,omitempty"`
		XHTML          bool      `yaml:"xhtml"`
	}

	OutputConfig struct {
		Overwrite             Overwrite `yaml:"overwrite" validate:"oneof=0 1 2"`
		NoDirs                bool      `yaml:"no_dirs"`
		FileNameTransliterate bool      `yaml:"file_name_transliterate"`
		OutputNameTemplate    string    `yaml:"output_name_template"`
	}

	ServeConfig struct {
		Listen        string `yaml:"listen" validate:"required,hostname_port"`
		ComponentsDir string `yaml:"components_dir,omitempty"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Styling   StylingConfig  `yaml:"styling"`
		Document  DocumentConfig `yaml:"document"`
		Output    OutputConfig   `yaml:"output"`
		Serve     ServeConfig    `yaml:"serve"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// EffectiveOverrides combines the inline theme overrides with the optional
// theme file, file values winning.
func (conf *StylingConfig) EffectiveOverrides(log *zap.Logger) (*theme.Theme, error) {
	if len(conf.ThemeFile) == 0 {
		return conf.Theme, nil
	}
	t, err := theme.Load(conf.ThemeFile, log)
	if err != nil {
		return nil, err
	}
	return theme.Merge(conf.Theme, t), nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
