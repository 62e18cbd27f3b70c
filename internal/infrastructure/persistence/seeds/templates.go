// Package seeds loads the permission template catalog from YAML.
package seeds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

// CatalogFile is the YAML layout of a template catalog:
//
//	templates:
//	  - name: SUPER_ADMIN
//	    all: true
//	  - name: DOCTOR
//	    permissions: [patients:read, patients:list]
//	  - name: SENIOR_DOCTOR
//	    base: DOCTOR
//	    permissions: [patients:approve]
//	    remove: [patients:list]
type CatalogFile struct {
	Templates []TemplateSpec `yaml:"templates"`
}

// TemplateSpec describes one template. all expands to the full resource x action
// cross product; base derives from a template declared earlier in the same file.
type TemplateSpec struct {
	Name        string   `yaml:"name"`
	All         bool     `yaml:"all"`
	Base        string   `yaml:"base"`
	Permissions []string `yaml:"permissions"`
	Remove      []string `yaml:"remove"`
}

// LoadRegistry reads a catalog file. An empty path yields the built-in catalog.
func LoadRegistry(path string) (*permission.Registry, error) {
	if path == "" {
		return permission.DefaultRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}

	registry, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("template catalog %s: %w", path, err)
	}
	return registry, nil
}

// ParseRegistry builds a registry from YAML catalog content.
func ParseRegistry(data []byte) (*permission.Registry, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template catalog declares no templates")
	}

	registry, err := permission.NewRegistry()
	if err != nil {
		return nil, err
	}

	for _, spec := range file.Templates {
		tmpl, err := spec.build(registry)
		if err != nil {
			return nil, err
		}
		if registry, err = registry.With(tmpl); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (s TemplateSpec) build(declared *permission.Registry) (permission.Template, error) {
	if s.All && s.Base != "" {
		return permission.Template{}, fmt.Errorf("template %s: all and base are mutually exclusive", s.Name)
	}

	additions, err := parseCodes(s.Name, s.Permissions)
	if err != nil {
		return permission.Template{}, err
	}
	removals, err := parseCodes(s.Name, s.Remove)
	if err != nil {
		return permission.Template{}, err
	}

	if s.Base != "" {
		return declared.Derive(s.Name, s.Base, additions, removals)
	}

	var pairs []vo.Pair
	if s.All {
		pairs = vo.CrossProduct(vo.AllResources(), vo.AllActions())
	}
	pairs = append(pairs, additions...)

	if len(removals) > 0 {
		drop := make(map[vo.Pair]struct{}, len(removals))
		for _, p := range removals {
			drop[p] = struct{}{}
		}
		kept := pairs[:0]
		for _, p := range pairs {
			if _, ok := drop[p]; !ok {
				kept = append(kept, p)
			}
		}
		pairs = kept
	}

	return permission.Template{Name: s.Name, Pairs: pairs}, nil
}

func parseCodes(template string, codes []string) ([]vo.Pair, error) {
	pairs := make([]vo.Pair, 0, len(codes))
	for _, code := range codes {
		pair, err := vo.ParsePair(code)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", template, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
