package crm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

func (t *Tools) planChangeLeadStatus(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	leadID, _ := fields.Int("lead_id")
	stage := fields.String("stage")
	name := fields.String("lead_name")
	if stage == "" {
		return tool.Ask("A que estado queres pasar el lead?", "stage"), nil
	}
	if leadID <= 0 && name == "" {
		return tool.Ask("Necesito el id o nombre del lead.", "lead_id"), nil
	}

	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Reject(msgNotConfigured), nil
	}

	var lead *Lead
	if leadID <= 0 {
		var leads []Lead
		if err := mod.Get(ctx, "/clientes", map[string]string{"q": name, "status": "all"}, &leads); err != nil {
			return tool.Reject("No pude buscar leads en CRM."), nil
		}
		candidates := make([]toolkit.Candidate, 0, len(leads))
		for _, l := range leads {
			candidates = append(candidates, toolkit.Candidate{ID: int64(l.ID), Label: l.Nombre})
		}
		pick, outcome := toolkit.Pick(name, candidates)
		switch outcome {
		case toolkit.NoMatch:
			return tool.Reject("No encontre un lead con ese nombre."), nil
		case toolkit.Ambiguous:
			return tool.Ask("Tengo varios leads. Decime el id exacto. Ej: "+toolkit.ListCandidates(candidates), "lead_id"), nil
		}
		leadID = pick.ID
		lead = &Lead{ID: toolkit.FlexInt(pick.ID), Nombre: pick.Label}
	} else {
		var found Lead
		if err := mod.Get(ctx, fmt.Sprintf("/clientes/%d", leadID), nil, &found); err == nil {
			lead = &found
		}
	}

	preview := map[string]interface{}{"lead_id": leadID, "nombre": nil, "stage": stage}
	if lead != nil {
		preview["nombre"] = toolkit.Text(lead.Nombre)
	}
	return &tool.PlanResult{
		Status:   tool.StatusOK,
		Fields:   tool.Fields{"lead_id": leadID, "stage": stage},
		Preview:  preview,
		Message:  fmt.Sprintf("Voy a mover el lead #%d a %q.", leadID, stage),
		Steps:    []string{"Valido el lead", "Cambio el estado en kanban", "Actualizo el pipeline"},
		DeepLink: mod.DeepLink("/kanban/clientes"),
	}, nil
}

func (t *Tools) executeChangeLeadStatus(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	leadID, ok := fields.Int("lead_id")
	stage := fields.String("stage")
	if !ok || leadID <= 0 || stage == "" {
		return tool.Failed("Faltan datos para mover el lead.", nil), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Failed(msgNotConfigured, nil), nil
	}

	var moved Lead
	path := fmt.Sprintf("/kanban/clientes/%d/move", leadID)
	if err := mod.Do(ctx, http.MethodPatch, path, nil, map[string]interface{}{"stage": stage}, &moved); err != nil {
		return mod.Failure("No pude mover el lead.", err), nil
	}
	if moved.Stage != "" {
		stage = moved.Stage
	}
	return &tool.ExecResult{
		Status:   tool.StatusOK,
		Result:   map[string]interface{}{"lead_id": leadID, "stage": stage},
		Message:  fmt.Sprintf("Listo. Lead #%d movido a %q.", leadID, stage),
		DeepLink: mod.DeepLink("/kanban/clientes"),
	}, nil
}
