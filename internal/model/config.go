package model

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

var configValidate = validator.New()

// Config holds all corefer configuration
type Config struct {
	Linker      LinkerConfig      `yaml:"linker" mapstructure:"linker"`
	Rebalance   RebalanceConfig   `yaml:"rebalance" mapstructure:"rebalance"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge" mapstructure:"knowledge"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LinkerConfig controls the linking cascade
type LinkerConfig struct {
	Language               string     `yaml:"language" mapstructure:"language" validate:"oneof=en generic"`
	Steps                  StepConfig `yaml:"steps" mapstructure:"steps"`
	AntiLinkWords          []string   `yaml:"anti_link_words" mapstructure:"anti_link_words"`
	RequireCloseMatch      bool       `yaml:"require_close_match" mapstructure:"require_close_match"`
	BypassTypes            []string   `yaml:"bypass_types" mapstructure:"bypass_types"`
	ExcludeSpeakerEntities bool       `yaml:"exclude_speaker_entities" mapstructure:"exclude_speaker_entities"`
	SynonymSets            [][]string `yaml:"synonym_sets" mapstructure:"synonym_sets"`
	NameEditDistance       int        `yaml:"name_edit_distance" mapstructure:"name_edit_distance" validate:"gte=0"`
}

// StepConfig enables or disables individual linking steps
type StepConfig struct {
	Bypass      bool `yaml:"bypass" mapstructure:"bypass"`
	AntiLink    bool `yaml:"anti_link" mapstructure:"anti_link"`
	HeadMatch   bool `yaml:"head_match" mapstructure:"head_match"`
	Subtype     bool `yaml:"subtype" mapstructure:"subtype"`
	PremodName  bool `yaml:"premod_name" mapstructure:"premod_name"`
	Names       bool `yaml:"names" mapstructure:"names"`
	Pronouns    bool `yaml:"pronouns" mapstructure:"pronouns"`
	Appositives bool `yaml:"appositives" mapstructure:"appositives"`
	PreLink     bool `yaml:"prelink" mapstructure:"prelink"`
}

// Rebalance strategies
const (
	StrategyGroupMerge = "group-merge"
	StrategyLinkToName = "link-to-name"
)

// RebalanceConfig controls the document-level singleton re-balancer
type RebalanceConfig struct {
	Enabled             bool    `yaml:"enabled" mapstructure:"enabled"`
	Strategy            string  `yaml:"strategy" mapstructure:"strategy" validate:"oneof=group-merge link-to-name"`
	SingletonPercentage float64 `yaml:"singleton_percentage" mapstructure:"singleton_percentage" validate:"gte=0,lte=100"`
	MergeGroupSize      int     `yaml:"merge_group_size" mapstructure:"merge_group_size" validate:"gte=2"`
}

// KnowledgeConfig points at the optional world-knowledge files.
// Empty or missing files disable the matching signal only.
type KnowledgeConfig struct {
	Gazetteers        map[string]string `yaml:"gazetteers" mapstructure:"gazetteers"`
	StopWords         string            `yaml:"stop_words" mapstructure:"stop_words"`
	AmbiguousSurnames string            `yaml:"ambiguous_surnames" mapstructure:"ambiguous_surnames"`
	Teams             string            `yaml:"teams" mapstructure:"teams"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers         int           `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
	DocumentTimeout time.Duration `yaml:"document_timeout" mapstructure:"document_timeout"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level             string  `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format            string  `yaml:"format" mapstructure:"format" validate:"oneof=auto pretty json"`
	WarningsPerSecond float64 `yaml:"warnings_per_second" mapstructure:"warnings_per_second" validate:"gte=0"`
	WarningBurst      int     `yaml:"warning_burst" mapstructure:"warning_burst" validate:"gte=0"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	GlobalIDs bool `yaml:"global_ids" mapstructure:"global_ids"`
	Indent    bool `yaml:"indent" mapstructure:"indent"`
}

// DefaultAntiLinkWords are premodifiers that mark deliberate non-identity
func DefaultAntiLinkWords() []string {
	return []string{"other", "additional", "earlier", "previous", "former", "another", "many", "few", "a", "several"}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Linker: LinkerConfig{
			Language: "en",
			Steps: StepConfig{
				Bypass:      true,
				AntiLink:    true,
				HeadMatch:   true,
				Subtype:     true,
				PremodName:  true,
				Names:       true,
				Pronouns:    true,
				Appositives: true,
				PreLink:     true,
			},
			AntiLinkWords:          DefaultAntiLinkWords(),
			RequireCloseMatch:      true,
			ExcludeSpeakerEntities: false,
			SynonymSets:            [][]string{{"mafia", "crime", "mob"}},
			NameEditDistance:       1,
		},
		Rebalance: RebalanceConfig{
			Enabled:             false,
			Strategy:            StrategyGroupMerge,
			SingletonPercentage: 100,
			MergeGroupSize:      2,
		},
		Knowledge: KnowledgeConfig{
			Gazetteers: map[string]string{},
		},
		Concurrency: ConcurrencyConfig{
			Workers:         runtime.NumCPU(),
			DocumentTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:             "info",
			Format:            "auto",
			WarningsPerSecond: 5,
			WarningBurst:      10,
		},
		Output: OutputConfig{
			GlobalIDs: false,
			Indent:    true,
		},
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, t := range c.Linker.BypassTypes {
		if !ParseEntityType(t).Recognized() {
			return fmt.Errorf("invalid config: unknown bypass entity type %q", t)
		}
	}
	for label := range c.Knowledge.Gazetteers {
		if !ParseEntityType(label).Recognized() {
			return fmt.Errorf("invalid config: unknown gazetteer entity type %q", label)
		}
	}
	return nil
}
