package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/rhetor/pkg/rhetor/ingest"
	"github.com/cognicore/rhetor/pkg/rhetor/internalerr"
)

// Settings is the explicit configuration record for one analysis. The first
// four fields are critical: changing any of them invalidates a built index
// and forces re-tokenization. The rest only affect reporting and derived
// queries.
type Settings struct {
	CleanWords           bool `yaml:"clean_words"`
	MatchTags            bool `yaml:"match_tags"`
	Decontract           bool `yaml:"decontract"`
	PromisingContraction bool `yaml:"promising_contraction"`

	Ngrams    bool `yaml:"ngrams"`
	Sentiment bool `yaml:"sentiment"`

	SaveTags    bool `yaml:"save_tags"`
	DecodedTags bool `yaml:"decoded_tags"`
	Unmatched   bool `yaml:"unmatched"`
}

// ChangesCritical reports whether switching to next forces re-indexing.
func (s Settings) ChangesCritical(next Settings) bool {
	return s.CleanWords != next.CleanWords ||
		s.MatchTags != next.MatchTags ||
		s.Decontract != next.Decontract ||
		s.PromisingContraction != next.PromisingContraction
}

// TokenizerOptions maps the critical settings onto tokenizer options.
func (s Settings) TokenizerOptions() ingest.Options {
	return ingest.Options{
		CleanWords:           s.CleanWords,
		Decontract:           s.Decontract,
		PromisingContraction: s.PromisingContraction,
	}
}

// LoadSettings reads settings from a YAML file. Unknown keys are rejected.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return s, nil
}

// SaveSettings writes settings to a YAML file.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
