package permission

import (
	"fmt"
	"sort"
	"strings"

	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

// SuperAdminTemplate is the template that grants the full resource x action cross product.
const SuperAdminTemplate = "SUPER_ADMIN"

// Template is a named, non-persistent list of pairs used to bulk-populate a role.
type Template struct {
	Name  string
	Pairs []vo.Pair
}

// TemplateInfo holds summary statistics derived from a template.
type TemplateInfo struct {
	PermissionCount   int           `json:"permission_count"`
	DistinctResources []vo.Resource `json:"distinct_resources"`
	DistinctActions   []vo.Action   `json:"distinct_actions"`
}

// Registry is an immutable catalog of templates. It is built once and shared; no
// method mutates it.
type Registry struct {
	names     []string
	templates map[string][]vo.Pair
}

// NewRegistry builds a registry. Template names are upper-cased, duplicate pairs inside
// a template collapse to their first occurrence, and duplicate names are rejected.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{
		names:     make([]string, 0, len(templates)),
		templates: make(map[string][]vo.Pair, len(templates)),
	}

	for _, t := range templates {
		name := NormalizeTemplateName(t.Name)
		if name == "" {
			return nil, fmt.Errorf("template name is required")
		}
		if _, exists := r.templates[name]; exists {
			return nil, fmt.Errorf("duplicate template %q", name)
		}
		for _, p := range t.Pairs {
			if !p.Resource.IsValid() {
				return nil, fmt.Errorf("template %s: %w: %s", name, ErrInvalidResource, p.Resource)
			}
			if !p.Action.IsValid() {
				return nil, fmt.Errorf("template %s: %w: %s", name, ErrInvalidAction, p.Action)
			}
		}
		r.names = append(r.names, name)
		r.templates[name] = vo.Dedupe(t.Pairs)
	}

	return r, nil
}

// NormalizeTemplateName returns the registry key for name.
func NormalizeTemplateName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Get returns the template's pairs, or an empty list for an unknown name.
func (r *Registry) Get(name string) []vo.Pair {
	pairs, _ := r.Lookup(name)
	return pairs
}

// Lookup is Get with an explicit found signal, so callers can tell an unknown template
// from an empty one.
func (r *Registry) Lookup(name string) ([]vo.Pair, bool) {
	pairs, ok := r.templates[NormalizeTemplateName(name)]
	if !ok {
		return []vo.Pair{}, false
	}
	out := make([]vo.Pair, len(pairs))
	copy(out, pairs)
	return out, true
}

func (r *Registry) Has(name string) bool {
	_, ok := r.templates[NormalizeTemplateName(name)]
	return ok
}

// Names returns template names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Len() int {
	return len(r.names)
}

func (r *Registry) Describe(name string) (TemplateInfo, bool) {
	pairs, ok := r.Lookup(name)
	if !ok {
		return TemplateInfo{}, false
	}
	return DescribePairs(pairs), true
}

func (r *Registry) DescribeAll() map[string]TemplateInfo {
	out := make(map[string]TemplateInfo, len(r.names))
	for _, name := range r.names {
		out[name] = DescribePairs(r.templates[name])
	}
	return out
}

// DescribePairs computes summary statistics for any pair list.
func DescribePairs(pairs []vo.Pair) TemplateInfo {
	resources := make(map[vo.Resource]struct{})
	actions := make(map[vo.Action]struct{})
	for _, p := range pairs {
		resources[p.Resource] = struct{}{}
		actions[p.Action] = struct{}{}
	}

	info := TemplateInfo{
		PermissionCount:   len(pairs),
		DistinctResources: make([]vo.Resource, 0, len(resources)),
		DistinctActions:   make([]vo.Action, 0, len(actions)),
	}
	for res := range resources {
		info.DistinctResources = append(info.DistinctResources, res)
	}
	for act := range actions {
		info.DistinctActions = append(info.DistinctActions, act)
	}
	sort.Slice(info.DistinctResources, func(i, j int) bool { return info.DistinctResources[i] < info.DistinctResources[j] })
	sort.Slice(info.DistinctActions, func(i, j int) bool { return info.DistinctActions[i] < info.DistinctActions[j] })
	return info
}

// Derive computes a new template from baseName: the base pairs, then additions, minus
// every exact match in removals, deduplicated in first-seen order. The registry is not
// modified; registering the result is up to the caller.
func (r *Registry) Derive(newName, baseName string, additions, removals []vo.Pair) (Template, error) {
	base, ok := r.Lookup(baseName)
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownBaseTemplate, baseName)
	}

	removed := make(map[vo.Pair]struct{}, len(removals))
	for _, p := range removals {
		removed[p] = struct{}{}
	}

	merged := make([]vo.Pair, 0, len(base)+len(additions))
	merged = append(merged, base...)
	merged = append(merged, additions...)

	kept := make([]vo.Pair, 0, len(merged))
	for _, p := range merged {
		if _, drop := removed[p]; drop {
			continue
		}
		kept = append(kept, p)
	}

	return Template{
		Name:  NormalizeTemplateName(newName),
		Pairs: vo.Dedupe(kept),
	}, nil
}

// With returns a new registry containing r's templates plus extra. r is unchanged.
func (r *Registry) With(extra ...Template) (*Registry, error) {
	all := make([]Template, 0, len(r.names)+len(extra))
	for _, name := range r.names {
		all = append(all, Template{Name: name, Pairs: r.templates[name]})
	}
	all = append(all, extra...)
	return NewRegistry(all...)
}

func (r *Registry) IsSuperAdmin(name string) bool {
	return NormalizeTemplateName(name) == SuperAdminTemplate
}
