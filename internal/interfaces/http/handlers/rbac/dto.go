package rbac

import (
	"encoding/json"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/application/permission/dto"
)

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code,omitempty" binding:"omitempty,max=50"`
	Description string `json:"description,omitempty" binding:"max=2000"`
	Level       *int   `json:"level,omitempty" binding:"omitempty,min=0,max=99"`
}

func (r *CreateRoleRequest) ToCommand() rbacapp.CreateRoleCommand {
	return rbacapp.CreateRoleCommand{
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		Level:       r.Level,
	}
}

type CreateRoleFromTemplateRequest struct {
	RoleName     string `json:"role_name" binding:"required,max=100"`
	TemplateName string `json:"template_name" binding:"required,max=50"`
	Description  string `json:"description,omitempty" binding:"max=2000"`
}

func (r *CreateRoleFromTemplateRequest) ToCommand() rbacapp.CreateRoleFromTemplateCommand {
	return rbacapp.CreateRoleFromTemplateCommand{
		RoleName:     r.RoleName,
		TemplateName: r.TemplateName,
		Description:  r.Description,
	}
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Level       *int    `json:"level,omitempty" binding:"omitempty,min=0,max=99"`
}

func (r *UpdateRoleRequest) ToCommand() rbacapp.UpdateRoleCommand {
	return rbacapp.UpdateRoleCommand{
		Name:        r.Name,
		Description: r.Description,
		Level:       r.Level,
	}
}

type SetRoleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

type PairRequest struct {
	Resource string `json:"resource" binding:"required,rbac_resource"`
	Action   string `json:"action" binding:"required,rbac_action"`
}

type GrantRequest struct {
	Resource   string          `json:"resource" binding:"required,rbac_resource"`
	Action     string          `json:"action" binding:"required,rbac_action"`
	IsGranted  *bool           `json:"is_granted,omitempty"`
	Conditions json.RawMessage `json:"conditions,omitempty"`
}

func (r *GrantRequest) ToCommand(roleID uint) rbacapp.GrantCommand {
	return rbacapp.GrantCommand{
		RoleID:     roleID,
		Resource:   r.Resource,
		Action:     r.Action,
		IsGranted:  r.IsGranted,
		Conditions: r.Conditions,
	}
}

type SetGrantFlagRequest struct {
	Resource  string `json:"resource" binding:"required,rbac_resource"`
	Action    string `json:"action" binding:"required,rbac_action"`
	IsGranted *bool  `json:"is_granted" binding:"required"`
}

type BulkPermissionsRequest struct {
	Permissions []PairRequest `json:"permissions" binding:"required,min=1,max=500,dive"`
}

func (r *BulkPermissionsRequest) ToInputs() []dto.PairInput {
	return toPairInputs(r.Permissions)
}

type UpdateConditionsRequest struct {
	Conditions json.RawMessage `json:"conditions"`
}

type CopyPermissionsRequest struct {
	FromRoleID uint `json:"from_role_id" binding:"required"`
	ToRoleID   uint `json:"to_role_id" binding:"required,nefield=FromRoleID"`
	Overwrite  bool `json:"overwrite"`
}

type DeriveTemplateRequest struct {
	Name      string        `json:"name" binding:"required,max=50"`
	Base      string        `json:"base" binding:"required,max=50"`
	Additions []PairRequest `json:"additions,omitempty" binding:"omitempty,max=500,dive"`
	Removals  []PairRequest `json:"removals,omitempty" binding:"omitempty,max=500,dive"`
}

func (r *DeriveTemplateRequest) ToCommand() rbacapp.DeriveTemplateCommand {
	return rbacapp.DeriveTemplateCommand{
		Name:      r.Name,
		Base:      r.Base,
		Additions: toPairInputs(r.Additions),
		Removals:  toPairInputs(r.Removals),
	}
}

func toPairInputs(reqs []PairRequest) []dto.PairInput {
	out := make([]dto.PairInput, 0, len(reqs))
	for _, p := range reqs {
		out = append(out, dto.PairInput{Resource: p.Resource, Action: p.Action})
	}
	return out
}
