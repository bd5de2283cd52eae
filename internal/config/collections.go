package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Collection names double as store keys and CLI arguments.
	validate.RegisterValidation("collection_name", func(fl validator.FieldLevel) bool {
		str := fl.Field().String()
		if str == "" {
			return false
		}
		for _, r := range str {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
				return false
			}
		}
		return true
	})
}

// EndpointSpec holds a collection's routes relative to the gateway base
// URL. Update and delete routes may contain ":id". Empty routes disable the
// corresponding remote operation.
type EndpointSpec struct {
	List   string `yaml:"list"`
	Create string `yaml:"create"`
	Update string `yaml:"update"`
	Delete string `yaml:"delete"`
}

// CollectionSpec describes one synchronized collection.
type CollectionSpec struct {
	Name string `yaml:"name" validate:"required,collection_name"`

	// Key is the snapshot store key; defaults to the name.
	Key string `yaml:"key" validate:"omitempty,collection_name"`

	// IDAttribute is the record field holding the identity. Empty puts the
	// collection in degraded trust-remote mode.
	IDAttribute string `yaml:"id_attribute"`

	// ModificationAttribute orders conflicts by timestamp.
	ModificationAttribute string `yaml:"modification_attribute"`

	// VersionAttribute orders conflicts by version, taking precedence over
	// the timestamp when both sides carry one.
	VersionAttribute string `yaml:"version_attribute"`

	Endpoints EndpointSpec `yaml:"endpoints"`

	LoadFirstRemote         bool `yaml:"load_first_remote"`
	AutoRefreshOnBackOnline bool `yaml:"auto_refresh_on_back_online"`
}

// LoadCollections reads and validates the collections YAML file.
func LoadCollections(path string) ([]CollectionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections file %s: %w", path, err)
	}

	var doc struct {
		Collections []CollectionSpec `yaml:"collections"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	if len(doc.Collections) == 0 {
		return nil, fmt.Errorf("no collections defined in %s", path)
	}

	seen := make(map[string]bool, len(doc.Collections))
	for i := range doc.Collections {
		spec := &doc.Collections[i]
		if spec.Key == "" {
			spec.Key = spec.Name
		}

		if err := validate.Struct(spec); err != nil {
			return nil, fmt.Errorf("invalid collection %q in %s: %w", spec.Name, path, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("duplicate collection name %q in %s", spec.Name, path)
		}
		seen[spec.Name] = true
	}

	return doc.Collections, nil
}

// FindCollection returns the spec with the given name.
func FindCollection(specs []CollectionSpec, name string) (*CollectionSpec, error) {
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i], nil
		}
	}
	return nil, fmt.Errorf("collection %q not found", name)
}
