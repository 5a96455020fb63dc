package assistant

import (
	"context"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

// Capability descreve uma ferramenta disponível para o chamador
type Capability struct {
	Tool        tool.Name `json:"tool"`
	Module      string    `json:"module"`
	Description string    `json:"descripcion"`
	Example     string    `json:"ejemplo"`
}

var capabilityTexts = map[tool.Name][2]string{
	tool.InviteUser:       {"Invitar usuarios", `Invitar ana@empresa.com como admin`},
	tool.ResendInvite:     {"Reenviar invitaciones", `Reenviar invitacion a ana@empresa.com`},
	tool.ResetPassword:    {"Resetear passwords", `Resetear password de ana@empresa.com`},
	tool.MarkTaskDone:     {"Marcar tareas como hechas", `Marcar tarea #12 como hecha`},
	tool.ChangeLeadStatus: {"Mover leads en el kanban", `Mover lead #42 a Won`},
	tool.CreateClient:     {"Crear clientes", `Crear cliente "ACME" email ventas@acme.com`},
	tool.CreateProduct:    {"Crear productos", `Crear producto "Yerba" en almacen 2`},
	tool.RegisterMovement: {"Registrar movimientos de stock", `Mover 10 unidades del producto #5 desde 1 a 2`},
}

// capabilities lista as ferramentas que o chamador pode executar, opcionalmente
// filtradas por módulo
func (m *Manager) capabilities(ctx context.Context, caller tool.Caller, kind string) *Response {
	module := ""
	if kind != "" && kind != intent.InfoCapabilities {
		module = kind
	}

	var items []interface{}
	var lines []string
	for _, d := range m.registry.List() {
		if module != "" && d.Module != module {
			continue
		}
		if !m.gate.CanPerform(identityOf(caller), d.Action, d.Module) {
			continue
		}
		if enabled, err := m.modules.Enabled(ctx, caller.TenantID, d.Module); err != nil || !enabled {
			continue
		}
		text := capabilityTexts[d.Name]
		items = append(items, Capability{Tool: d.Name, Module: d.Module, Description: text[0], Example: text[1]})
		lines = append(lines, "- "+text[0]+`. Ej: "`+text[1]+`"`)
	}

	if len(lines) == 0 {
		if module != "" {
			return message("No tengo acciones disponibles para " + module + ".")
		}
		return message("No tengo acciones disponibles para tu usuario.")
	}
	head := "Puedo ayudarte con:"
	if module != "" {
		head = "En " + strings.ToUpper(module) + " puedo ayudarte con:"
	}
	lines = append(lines, `Tambien puedo armar resumenes: "resumen de hoy", "tareas atrasadas", "leads frios".`)
	return &Response{
		Type:  TypeMessage,
		Text:  head + "\n" + strings.Join(lines, "\n"),
		Items: items,
	}
}
