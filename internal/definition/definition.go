// Package definition reads puzzle definitions from YAML or JSON and builds
// generated puzzles from them.
package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/kyiku/wordsearch-back/internal/mask"
	"github.com/kyiku/wordsearch-back/internal/validator"
	"github.com/kyiku/wordsearch-back/internal/word"
)

// InvalidError reports a definition that cannot be decoded or fails
// validation.
type InvalidError struct {
	Err error
}

func (e *InvalidError) Error() string {
	return "invalid definition: " + e.Err.Error()
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Level is a level number or a list of compass directions. Both YAML and
// JSON accept it as a number or a string.
type Level string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
	case float64:
		*l = Level(strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		*l = Level(t)
	case []any:
		dirs := make([]string, 0, len(t))
		for _, d := range t {
			s, ok := d.(string)
			if !ok {
				return fmt.Errorf("invalid direction: %v", d)
			}
			dirs = append(dirs, s)
		}
		*l = Level(strings.Join(dirs, ","))
	default:
		return fmt.Errorf("invalid level: %s", b)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var dirs []string
		if err := value.Decode(&dirs); err != nil {
			return err
		}
		*l = Level(strings.Join(dirs, ","))
		return nil
	}
	*l = Level(value.Value)
	return nil
}

// Directions resolves the level. An empty level yields an empty set.
func (l Level) Directions() (word.DirectionSet, error) {
	if l == "" {
		return word.NewDirectionSet(), nil
	}
	return word.ParseLevel(string(l))
}

// Definition describes a puzzle.
type Definition struct {
	Words           []string `yaml:"words" json:"words"`
	SecretWords     []string `yaml:"secret_words" json:"secret_words"`
	Level           Level    `yaml:"level" json:"level"`
	SecretLevel     Level    `yaml:"secret_level" json:"secret_level"`
	Size            int      `yaml:"size" json:"size"`
	RequireAllWords bool     `yaml:"require_all_words" json:"require_all_words"`
	Seed            int64    `yaml:"seed" json:"seed"`
	Alphabet        string   `yaml:"alphabet" json:"alphabet"`
	MaxFitTries     int      `yaml:"max_fit_tries" json:"max_fit_tries"`
	// Validators nil keeps the defaults; an empty list disables them.
	Validators []string  `yaml:"validators" json:"validators"`
	Masks      []MaskDef `yaml:"masks" json:"masks"`
}

// MaskDef describes one mask. Shape names a preset; otherwise Type selects
// the mask kind and the remaining fields are its parameters.
type MaskDef struct {
	Type   string `yaml:"type" json:"type"`
	Shape  string `yaml:"shape" json:"shape"`
	Method string `yaml:"method" json:"method"`
	Static *bool  `yaml:"static" json:"static"`

	Points      [][2]int `yaml:"points" json:"points"`
	Width       int      `yaml:"width" json:"width"`
	Height      int      `yaml:"height" json:"height"`
	Center      *[2]int  `yaml:"center" json:"center"`
	Origin      [2]int   `yaml:"origin" json:"origin"`
	Vertices    int      `yaml:"vertices" json:"vertices"`
	Radius      int      `yaml:"radius" json:"radius"`
	InnerRadius int      `yaml:"inner_radius" json:"inner_radius"`
	Rotation    float64  `yaml:"rotation" json:"rotation"`
	Image       string   `yaml:"image" json:"image"`
	Threshold   int      `yaml:"threshold" json:"threshold"`

	Masks []MaskDef `yaml:"masks" json:"masks"`
}

// Validate reports every problem in the definition that can be found
// without building it.
func (d *Definition) Validate() error {
	var err error
	if len(d.Words) == 0 && len(d.SecretWords) == 0 {
		err = multierr.Append(err, errors.New("at least one word is required"))
	}
	if d.Size < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid size: %d", d.Size))
	}
	if d.MaxFitTries < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid max_fit_tries: %d", d.MaxFitTries))
	}
	if _, e := d.Level.Directions(); e != nil {
		err = multierr.Append(err, fmt.Errorf("invalid level: %w", e))
	}
	if _, e := d.SecretLevel.Directions(); e != nil {
		err = multierr.Append(err, fmt.Errorf("invalid secret_level: %w", e))
	}
	for _, name := range d.Validators {
		if _, ok := validator.ByName(name); !ok {
			err = multierr.Append(err, fmt.Errorf("unknown validator: %q", name))
		}
	}
	for i, m := range d.Masks {
		if e := m.validate(); e != nil {
			err = multierr.Append(err, fmt.Errorf("masks[%d]: %w", i, e))
		}
	}
	return err
}

func (m *MaskDef) validate() error {
	if m.Type == "" && m.Shape == "" {
		return errors.New("type or shape is required")
	}
	if _, err := mask.ParseMethod(m.Method); err != nil {
		return err
	}
	for i, child := range m.Masks {
		if err := child.validate(); err != nil {
			return fmt.Errorf("masks[%d]: %w", i, err)
		}
	}
	return nil
}

// ParseYAML decodes and validates a YAML definition. Unknown keys are
// rejected.
func ParseYAML(data []byte) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidError{Err: fmt.Errorf("cannot unmarshal YAML: %w", err)}
	}
	if err := d.Validate(); err != nil {
		return nil, &InvalidError{Err: err}
	}
	return &d, nil
}

// ParseJSON decodes and validates a JSON definition. Unknown keys are
// rejected.
func ParseJSON(data []byte) (*Definition, error) {
	var d Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, &InvalidError{Err: fmt.Errorf("cannot unmarshal JSON: %w", err)}
	}
	if err := d.Validate(); err != nil {
		return nil, &InvalidError{Err: err}
	}
	return &d, nil
}

// Load reads a definition file. Files ending in .json are parsed as JSON,
// everything else as YAML.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}
