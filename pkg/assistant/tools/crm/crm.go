// Package crm implementa as ferramentas do assistente que operam sobre a API do CRM.
package crm

import (
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

// Module é o nome do módulo remoto
const Module = "crm"

const msgNotConfigured = "No tengo configurado el API de CRM."

// Task é uma tarefa como a API do CRM devolve
type Task struct {
	ID            toolkit.FlexInt `json:"id"`
	Titulo        string          `json:"titulo"`
	ClienteNombre string          `json:"cliente_nombre"`
	Estado        string          `json:"estado"`
	VenceEn       string          `json:"vence_en"`
	Completada    bool            `json:"completada"`
}

// Lead é um cliente/oportunidade do kanban
type Lead struct {
	ID        toolkit.FlexInt `json:"id"`
	Nombre    string          `json:"nombre"`
	Stage     string          `json:"stage"`
	Categoria string          `json:"categoria"`
	DueDate   string          `json:"due_date"`
}

// KanbanColumn é uma coluna do kanban de clientes
type KanbanColumn struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Items []Lead `json:"items"`
}

// Kanban é a resposta de /kanban/clientes
type Kanban struct {
	Columns []KanbanColumn `json:"columns"`
}

// Tools agrupa as ferramentas do CRM
type Tools struct {
	backend *toolkit.Backend
}

// New cria as ferramentas sobre o backend informado
func New(backend *toolkit.Backend) *Tools {
	return &Tools{backend: backend}
}

// Descriptors devolve os descritores para o registro
func (t *Tools) Descriptors() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:     tool.MarkTaskDone,
			Module:   Module,
			Action:   "mark_task_done",
			Required: nil,
			Plan:     t.planMarkTaskDone,
			Execute:  t.executeMarkTaskDone,
		},
		{
			Name:     tool.ChangeLeadStatus,
			Module:   Module,
			Action:   "change_lead_status",
			Required: []string{"stage"},
			Plan:     t.planChangeLeadStatus,
			Execute:  t.executeChangeLeadStatus,
		},
		{
			Name:     tool.CreateClient,
			Module:   Module,
			Action:   "create_client",
			Required: []string{"nombre"},
			Plan:     t.planCreateClient,
			Execute:  t.executeCreateClient,
		},
	}
}
