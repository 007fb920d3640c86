// Package config loads named workflow profiles from a viper config file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Defaults applied when the profile omits a key.
const (
	DefaultThreshold  = 0.7
	DefaultIterations = 30
	DefaultLanguage   = "en"
	DefaultModel      = "dummy"
	DefaultServerURL  = "http://localhost:8080"
	DefaultDBPath     = "./data/nertrain.db"
)

// ResourceHints are static requests declared to the surrounding
// orchestration platform. They are informational only; nothing here
// enforces them.
type ResourceHints struct {
	CPU     string `mapstructure:"cpu"`
	Memory  string `mapstructure:"memory"`
	Storage string `mapstructure:"storage"`
}

// Resources pairs requested and limit hints.
type Resources struct {
	Requests ResourceHints `mapstructure:"requests"`
	Limits   ResourceHints `mapstructure:"limits"`
}

// Profile is one named workflow configuration.
type Profile struct {
	Name string `mapstructure:"-"`

	// Annotation export location.
	AnnotationBucket string `mapstructure:"annotation_bucket"`
	AnnotationObject string `mapstructure:"annotation_object"`

	// Trained model artifact destination.
	ModelBucket string `mapstructure:"model_bucket"`
	ModelObject string `mapstructure:"model_object"`

	// Model is the designated model version the training gate inspects.
	Model      string  `mapstructure:"model"`
	Threshold  float64 `mapstructure:"threshold"`
	Iterations int     `mapstructure:"iterations"`

	// Language selects the pretrained base model from Models.
	Language string            `mapstructure:"language"`
	Models   map[string]string `mapstructure:"models"`

	ServerURL   string `mapstructure:"server_url"`
	DBPath      string `mapstructure:"db"`
	Credentials string `mapstructure:"credentials"`

	Resources Resources `mapstructure:"resources"`
}

// Load reads the named profile. configFile may be empty to search for
// nertrain.yaml in the working directory.
func Load(configFile, name string) (*Profile, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("nertrain")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	sub := v.Sub(name)
	if sub == nil {
		return nil, fmt.Errorf("profile %q not found in %s", name, v.ConfigFileUsed())
	}

	sub.SetDefault("threshold", DefaultThreshold)
	sub.SetDefault("iterations", DefaultIterations)
	sub.SetDefault("language", DefaultLanguage)
	sub.SetDefault("model", DefaultModel)
	sub.SetDefault("server_url", DefaultServerURL)
	sub.SetDefault("db", DefaultDBPath)
	sub.SetDefault("models", map[string]string{"en": "en_core_web_sm"})

	var p Profile
	if err := sub.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}
	p.Name = name

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", name, err)
	}
	return &p, nil
}

// Validate checks the profile at load time so unsupported language codes
// and missing locations fail before the workflow starts.
func (p *Profile) Validate() error {
	if p.AnnotationBucket == "" || p.AnnotationObject == "" {
		return fmt.Errorf("annotation_bucket and annotation_object are required")
	}
	if p.ModelBucket == "" || p.ModelObject == "" {
		return fmt.Errorf("model_bucket and model_object are required")
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1], got %v", p.Threshold)
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", p.Iterations)
	}

	for code, model := range p.Models {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid language code %q in models: %v", code, err)
		}
		if model == "" {
			return fmt.Errorf("empty model name for language %q", code)
		}
	}

	if _, err := p.PretrainedModel(); err != nil {
		return err
	}
	return nil
}

// PretrainedModel resolves the profile's language to its pretrained base
// model name.
func (p *Profile) PretrainedModel() (string, error) {
	model, ok := p.Models[p.Language]
	if !ok {
		return "", fmt.Errorf("unsupported language %q: no pretrained model configured", p.Language)
	}
	return model, nil
}
