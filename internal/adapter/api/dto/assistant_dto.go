package dto

import (
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// EntityContextRequest são os ids da tela onde o usuário está
type EntityContextRequest struct {
	TaskID           int64 `json:"task_id,omitempty"`
	LeadID           int64 `json:"lead_id,omitempty"`
	ProductID        int64 `json:"product_id,omitempty"`
	AlmacenID        int64 `json:"almacen_id,omitempty"`
	AlmacenOrigenID  int64 `json:"almacen_origen_id,omitempty"`
	AlmacenDestinoID int64 `json:"almacen_destino_id,omitempty"`
}

// ChatRequest representa uma mensagem enviada ao assistente
type ChatRequest struct {
	Message       string               `json:"message" example:"Invitar ana@empresa.com como admin"`
	ConfirmToken  string               `json:"confirm_token,omitempty"`
	CurrentModule string               `json:"current_module,omitempty" example:"crm"`
	CurrentRoute  string               `json:"current_route,omitempty" example:"/crm/kanban"`
	EntityContext EntityContextRequest `json:"entity_context"`
	UserLocale    string               `json:"user_locale,omitempty" example:"es-AR"`
}

// Empty informa se não há mensagem nem token
func (r ChatRequest) Empty() bool {
	return r.Message == "" && r.ConfirmToken == ""
}

// Apply completa o chamador autenticado com o contexto de tela da requisição
func (r ChatRequest) Apply(c tool.Caller) tool.Caller {
	c.CurrentModule = r.CurrentModule
	c.CurrentRoute = r.CurrentRoute
	c.Locale = r.UserLocale
	c.Entity = tool.EntityContext{
		TaskID:           r.EntityContext.TaskID,
		LeadID:           r.EntityContext.LeadID,
		ProductID:        r.EntityContext.ProductID,
		AlmacenID:        r.EntityContext.AlmacenID,
		AlmacenOrigenID:  r.EntityContext.AlmacenOrigenID,
		AlmacenDestinoID: r.EntityContext.AlmacenDestinoID,
	}
	return c
}
