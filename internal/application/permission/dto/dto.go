package dto

import (
	"encoding/json"
	"time"

	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

type RoleDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	// DescriptionHTML is the description rendered from markdown and sanitized.
	DescriptionHTML string    `json:"description_html,omitempty"`
	RoleType        string    `json:"role_type"`
	Level           int       `json:"level"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RoleWithGrantsDTO is returned when a role is created together with its grants.
type RoleWithGrantsDTO struct {
	RoleDTO
	Permissions []string `json:"permissions"`
	Created     int      `json:"created"`
	Skipped     int      `json:"skipped"`
}

type GrantDTO struct {
	ID             uint            `json:"id"`
	RoleID         uint            `json:"role_id"`
	Resource       string          `json:"resource"`
	Action         string          `json:"action"`
	PermissionCode string          `json:"permission_code"`
	IsGranted      bool            `json:"is_granted"`
	Conditions     json.RawMessage `json:"conditions,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CheckResult answers whether a role may perform an action on a resource.
// ExplicitDeny distinguishes a revoked grant from one that never existed.
type CheckResult struct {
	HasPermission  bool            `json:"has_permission"`
	PermissionCode string          `json:"permission_code"`
	Conditions     json.RawMessage `json:"conditions,omitempty"`
	Message        string          `json:"message"`
	ExplicitDeny   bool            `json:"explicit_deny"`
}

type BulkResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type BulkRevokeResult struct {
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

type CopyResult struct {
	FromRoleID  uint `json:"from_role_id"`
	ToRoleID    uint `json:"to_role_id"`
	Copied      int  `json:"copied"`
	Skipped     int  `json:"skipped"`
	Overwritten int  `json:"overwritten"`
}

// PermissionMatrix maps resource -> action -> is_granted over the full vocabulary.
type PermissionMatrix map[string]map[string]bool

type MatrixDTO struct {
	RoleID   uint             `json:"role_id"`
	RoleCode string           `json:"role_code"`
	Matrix   PermissionMatrix `json:"matrix"`
}

type PermissionSummary struct {
	RoleID       uint           `json:"role_id"`
	RoleCode     string         `json:"role_code"`
	Total        int            `json:"total"`
	GrantedCount int            `json:"granted_count"`
	DeniedCount  int            `json:"denied_count"`
	ByResource   map[string]int `json:"by_resource"`
	ByAction     map[string]int `json:"by_action"`
}

type TemplateListDTO struct {
	Templates []string `json:"templates"`
	Total     int      `json:"total"`
}

type TemplateDTO struct {
	Name              string   `json:"name"`
	Permissions       []string `json:"permissions"`
	PermissionCount   int      `json:"permission_count"`
	DistinctResources []string `json:"distinct_resources"`
	DistinctActions   []string `json:"distinct_actions"`
}

type AvailablePermissionsDTO struct {
	Resources           []string `json:"resources"`
	Actions             []string `json:"actions"`
	TotalCombinations   int      `json:"total_combinations"`
	PermissionTemplates []string `json:"permission_templates"`
}

type SeedReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
	Grants  int      `json:"grants"`
}

func ToRoleDTO(r *permission.Role) *RoleDTO {
	if r == nil {
		return nil
	}
	return &RoleDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		Code:        r.Code(),
		Description: r.Description(),
		RoleType:    string(r.Type()),
		Level:       r.Level(),
		Status:      string(r.Status()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func ToRoleDTOs(roles []*permission.Role) []*RoleDTO {
	out := make([]*RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, ToRoleDTO(r))
	}
	return out
}

func ToGrantDTO(rp *permission.RolePermission) *GrantDTO {
	if rp == nil {
		return nil
	}
	return &GrantDTO{
		ID:             rp.ID(),
		RoleID:         rp.RoleID(),
		Resource:       rp.Resource().String(),
		Action:         rp.Action().String(),
		PermissionCode: rp.Code(),
		IsGranted:      rp.IsGranted(),
		Conditions:     rp.Conditions(),
		CreatedAt:      rp.CreatedAt(),
		UpdatedAt:      rp.UpdatedAt(),
	}
}

func ToGrantDTOs(rps []*permission.RolePermission) []*GrantDTO {
	out := make([]*GrantDTO, 0, len(rps))
	for _, rp := range rps {
		out = append(out, ToGrantDTO(rp))
	}
	return out
}

func ToTemplateDTO(name string, pairs []vo.Pair, info permission.TemplateInfo) *TemplateDTO {
	codes := make([]string, 0, len(pairs))
	for _, p := range pairs {
		codes = append(codes, p.Code())
	}
	resources := make([]string, 0, len(info.DistinctResources))
	for _, r := range info.DistinctResources {
		resources = append(resources, r.String())
	}
	actions := make([]string, 0, len(info.DistinctActions))
	for _, a := range info.DistinctActions {
		actions = append(actions, a.String())
	}
	return &TemplateDTO{
		Name:              name,
		Permissions:       codes,
		PermissionCount:   info.PermissionCount,
		DistinctResources: resources,
		DistinctActions:   actions,
	}
}

// PairInput is an unvalidated resource/action pair received from a caller.
type PairInput struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
