package permission

import (
	"fmt"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/shared/errors"
)

type DeriveTemplateCommand struct {
	Name      string
	Base      string
	Additions []dto.PairInput
	Removals  []dto.PairInput
}

// TemplateService exposes the read-only template registry.
type TemplateService struct {
	registry *permission.Registry
}

func NewTemplateService(registry *permission.Registry) *TemplateService {
	return &TemplateService{registry: registry}
}

func (s *TemplateService) ListTemplates() *dto.TemplateListDTO {
	names := s.registry.Names()
	return &dto.TemplateListDTO{Templates: names, Total: len(names)}
}

func (s *TemplateService) DescribeTemplate(name string) (*dto.TemplateDTO, error) {
	pairs, ok := s.registry.Lookup(name)
	if !ok {
		return nil, toAppError(fmt.Errorf("%w: %s", permission.ErrUnknownTemplate, name))
	}
	return dto.ToTemplateDTO(permission.NormalizeTemplateName(name), pairs, permission.DescribePairs(pairs)), nil
}

// DescribeAll returns every template keyed by name.
func (s *TemplateService) DescribeAll() map[string]*dto.TemplateDTO {
	infos := s.registry.DescribeAll()
	out := make(map[string]*dto.TemplateDTO, len(infos))
	for name, info := range infos {
		out[name] = dto.ToTemplateDTO(name, s.registry.Get(name), info)
	}
	return out
}

// DeriveTemplate computes a template from a registered base without registering it.
func (s *TemplateService) DeriveTemplate(cmd DeriveTemplateCommand) (*dto.TemplateDTO, error) {
	if permission.NormalizeTemplateName(cmd.Name) == "" {
		return nil, errors.NewValidationError("template name is required")
	}

	additions, err := toPairs(cmd.Additions)
	if err != nil {
		return nil, err
	}
	removals, err := toPairs(cmd.Removals)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.registry.Derive(cmd.Name, cmd.Base, additions, removals)
	if err != nil {
		return nil, toAppError(err)
	}

	return dto.ToTemplateDTO(tmpl.Name, tmpl.Pairs, permission.DescribePairs(tmpl.Pairs)), nil
}

func (s *TemplateService) AvailablePermissions() *dto.AvailablePermissionsDTO {
	resources := vo.AllResources()
	actions := vo.AllActions()

	out := &dto.AvailablePermissionsDTO{
		Resources:           make([]string, 0, len(resources)),
		Actions:             make([]string, 0, len(actions)),
		TotalCombinations:   len(resources) * len(actions),
		PermissionTemplates: s.registry.Names(),
	}
	for _, r := range resources {
		out.Resources = append(out.Resources, r.String())
	}
	for _, a := range actions {
		out.Actions = append(out.Actions, a.String())
	}
	return out
}

func toPairs(inputs []dto.PairInput) ([]vo.Pair, error) {
	pairs := make([]vo.Pair, 0, len(inputs))
	for i, in := range inputs {
		pair, err := vo.NewPair(in.Resource, in.Action)
		if err != nil {
			return nil, toAppError(fmt.Errorf("pair %d: %w", i, err))
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
