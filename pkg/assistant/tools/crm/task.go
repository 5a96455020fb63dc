package crm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

func (t *Tools) planMarkTaskDone(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	taskID, _ := fields.Int("task_id")
	title := fields.String("task_title")
	if taskID <= 0 && title == "" {
		return tool.Ask("Decime el id o el titulo exacto de la tarea.", "task_id"), nil
	}

	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Reject(msgNotConfigured), nil
	}

	var task *Task
	if taskID <= 0 {
		var tasks []Task
		query := map[string]string{"q": title, "limit": "20", "offset": "0"}
		if err := mod.Get(ctx, "/tareas", query, &tasks); err != nil {
			return tool.Reject("No pude buscar tareas en CRM."), nil
		}
		candidates := make([]toolkit.Candidate, 0, len(tasks))
		for _, tk := range tasks {
			candidates = append(candidates, toolkit.Candidate{ID: int64(tk.ID), Label: tk.Titulo})
		}
		pick, outcome := toolkit.Pick(title, candidates)
		switch outcome {
		case toolkit.NoMatch:
			return tool.Reject("No encontre una tarea con ese titulo."), nil
		case toolkit.Ambiguous:
			return tool.Ask("Tengo varias tareas. Decime el id exacto. Ej: "+toolkit.ListCandidates(candidates), "task_id"), nil
		}
		taskID = pick.ID
		for i := range tasks {
			if int64(tasks[i].ID) == pick.ID {
				task = &tasks[i]
				break
			}
		}
	} else {
		var found Task
		// sem detalhe a prévia segue só com o id
		if err := mod.Get(ctx, fmt.Sprintf("/tareas/%d", taskID), nil, &found); err == nil {
			task = &found
		}
	}

	preview := map[string]interface{}{"task_id": taskID, "titulo": nil, "cliente": nil}
	if task != nil {
		preview["titulo"] = toolkit.Text(task.Titulo)
		preview["cliente"] = toolkit.Text(task.ClienteNombre)
	}
	return &tool.PlanResult{
		Status:   tool.StatusOK,
		Fields:   tool.Fields{"task_id": taskID},
		Preview:  preview,
		Message:  fmt.Sprintf("Voy a marcar como hecha la tarea #%d.", taskID),
		Steps:    []string{"Verifico la tarea", "La marco como hecha", "Actualizo el tablero"},
		DeepLink: mod.DeepLink("/tareas"),
	}, nil
}

func (t *Tools) executeMarkTaskDone(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	taskID, ok := fields.Int("task_id")
	if !ok || taskID <= 0 {
		return tool.Failed("Necesito el id de la tarea.", nil), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Failed(msgNotConfigured, nil), nil
	}

	var updated Task
	body := map[string]interface{}{"completada": true}
	if err := mod.Do(ctx, http.MethodPatch, fmt.Sprintf("/tareas/%d", taskID), nil, body, &updated); err != nil {
		return mod.Failure("No pude marcar la tarea.", err), nil
	}
	estado := updated.Estado
	if estado == "" {
		estado = "done"
	}
	return &tool.ExecResult{
		Status:   tool.StatusOK,
		Result:   map[string]interface{}{"task_id": taskID, "estado": estado},
		Message:  fmt.Sprintf("Listo. Tarea #%d marcada como hecha.", taskID),
		DeepLink: mod.DeepLink("/tareas"),
	}, nil
}
