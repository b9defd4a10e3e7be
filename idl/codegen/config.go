package codegen

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GeneratorConfig is the on-disk shape of erpcgen's generator config file
// (`erpcgen --config gen.yaml`), following the teacher's gopkg.in/yaml.v3
// use in core for configuration loading. cmd/erpcgen's own pkg/config
// layer (viper, with a TOML alternative) decides which file to read and
// hands its bytes here; LoadConfig owns only the generator-specific shape.
type GeneratorConfig struct {
	OutDir     string   `yaml:"out_dir"`
	Languages  []string `yaml:"languages"`
	CRCEnabled bool     `yaml:"crc_enabled"`
}

// LoadConfig parses a generator config file's contents.
func LoadConfig(data []byte) (*GeneratorConfig, error) {
	var cfg GeneratorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("codegen: parsing generator config: %w", err)
	}
	return &cfg, nil
}

var languageByName = map[string]Language{
	"c": LangC, "python": LangPython, "py": LangPython, "rust": LangRust,
}

// ParseLanguageName converts a -g/--generate flag value or config language
// name to a Language, rejecting anything that isn't a supported target.
func ParseLanguageName(name string) (Language, error) {
	lang, ok := languageByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown target language %q (want c, py, or rust)", name)
	}
	return lang, nil
}

// ParsedLanguages converts the config's language name list to Language
// values, rejecting any name that doesn't match a supported target.
func (c *GeneratorConfig) ParsedLanguages() ([]Language, error) {
	langs := make([]Language, 0, len(c.Languages))
	for _, name := range c.Languages {
		lang, err := ParseLanguageName(name)
		if err != nil {
			return nil, fmt.Errorf("codegen: %w", err)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}
