package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

const (
	ruleFileInvalidCode = "RULE_FILE_INVALID"
	ruleFileDecodeCode  = "RULE_FILE_DECODE_FAILED"
)

// File is the YAML document format for rule files.
//
//	node_types:
//	  - names: [MySampler]
//	    value_rules:
//	      - controlling_widgets: [noise_type]
//	        trigger_values: [fractal]
//	        target_widgets: [alpha, k]
//	toggleables:
//	  - widget: extra_options
//	    default_hidden: true
type File struct {
	NodeTypes   []NodeTypeEntry    `yaml:"node_types"`
	Toggleables []ToggleableWidget `yaml:"toggleables"`
}

// NodeTypeEntry binds one rule set to several node type names.
type NodeTypeEntry struct {
	Names          []string `yaml:"names"`
	NodeTypeConfig `yaml:",inline"`
}

// Validate checks structural requirements of a rule file.
func (f File) Validate() error {
	errs := validation.Errors{}
	for i, entry := range f.NodeTypes {
		if err := entry.validate(); err != nil {
			errs[fmt.Sprintf("node_types.%d", i)] = err
		}
	}
	for i, spec := range f.Toggleables {
		if strings.TrimSpace(spec.WidgetName) == "" {
			errs[fmt.Sprintf("toggleables.%d.widget", i)] = validation.NewError("rules.toggleable.widget_required", "widget name is required")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (e NodeTypeEntry) validate() error {
	return validation.Errors{
		"names": validation.Validate(e.Names, validation.Required, validation.Each(validation.By(requireName))),
		"rules": e.requireRule(),
		"value_rules": validation.Validate(e.ValueRules, validation.Each(validation.By(func(value any) error {
			rule, _ := value.(ValueRule)
			return validation.ValidateStruct(&rule,
				validation.Field(&rule.ControllingWidgets, validation.Required, validation.Each(validation.By(requireName))),
				validation.Field(&rule.TriggerValues, validation.Required),
				validation.Field(&rule.TargetWidgets, validation.Required, validation.Each(validation.By(requireName))),
			)
		}))),
		"connection_rules": validation.Validate(e.ConnectionRules, validation.Each(validation.By(func(value any) error {
			rule, _ := value.(ConnectionRule)
			return validation.ValidateStruct(&rule,
				validation.Field(&rule.ControllingInputs, validation.Required, validation.Each(validation.By(requireName))),
				validation.Field(&rule.TargetWidgets, validation.Required, validation.Each(validation.By(requireName))),
			)
		}))),
	}.Filter()
}

func (e NodeTypeEntry) requireRule() error {
	if len(e.ValueRules)+len(e.ConnectionRules) == 0 {
		return validation.NewError("rules.rule_required", "at least one rule is required")
	}
	return nil
}

func requireName(value any) error {
	name, _ := value.(string)
	if strings.TrimSpace(name) == "" {
		return validation.NewError("rules.name_required", "name must not be blank")
	}
	return nil
}

// Decode parses and validates a rule file. Validation failures are reported
// as go-errors validation errors carrying field details.
func Decode(r io.Reader) (File, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "rule file could not be decoded").
			WithTextCode(ruleFileDecodeCode)
	}
	if err := file.Validate(); err != nil {
		return File{}, goerrors.FromOzzoValidation(err, "rule file is invalid").
			WithTextCode(ruleFileInvalidCode)
	}
	return file, nil
}

// LoadFile reads and validates the rule file at path.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("rules: open %s: %w", path, err)
	}
	defer f.Close()
	file, err := Decode(f)
	if err != nil {
		return File{}, fmt.Errorf("rules: %s: %w", path, err)
	}
	return file, nil
}

// Apply registers every entry of the file. Later files override earlier
// bindings for the same node type.
func (f File) Apply(r *Registry) error {
	for _, entry := range f.NodeTypes {
		if err := r.Register(entry.NodeTypeConfig, entry.Names...); err != nil {
			return err
		}
	}
	for _, spec := range f.Toggleables {
		if err := r.RegisterToggleable(spec); err != nil {
			return err
		}
	}
	return nil
}

// LoadInto loads each path in order and applies it to r.
func LoadInto(r *Registry, paths ...string) error {
	for _, path := range paths {
		file, err := LoadFile(path)
		if err != nil {
			return err
		}
		if err := file.Apply(r); err != nil {
			return fmt.Errorf("rules: apply %s: %w", path, err)
		}
	}
	return nil
}
