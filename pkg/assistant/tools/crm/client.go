package crm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

type clientPayload struct {
	Nombre         interface{} `json:"nombre"`
	ContactoNombre interface{} `json:"contacto_nombre"`
	Email          interface{} `json:"email"`
	Telefono       interface{} `json:"telefono"`
	Status         string      `json:"status"`
}

func clientFrom(fields tool.Fields) clientPayload {
	return clientPayload{
		Nombre:         toolkit.Text(fields.String("nombre")),
		ContactoNombre: toolkit.Text(fields.String("contacto_nombre")),
		Email:          toolkit.Text(fields.String("email")),
		Telefono:       toolkit.Text(fields.String("telefono")),
		Status:         "active",
	}
}

func (t *Tools) planCreateClient(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	p := clientFrom(fields)
	if p.Nombre == nil {
		return tool.Ask("Como se llama el cliente?", "nombre"), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Reject(msgNotConfigured), nil
	}

	return &tool.PlanResult{
		Status: tool.StatusOK,
		Fields: tool.Fields{
			"nombre":          p.Nombre,
			"contacto_nombre": p.ContactoNombre,
			"email":           p.Email,
			"telefono":        p.Telefono,
		},
		Preview: map[string]interface{}{
			"nombre":          p.Nombre,
			"contacto_nombre": p.ContactoNombre,
			"email":           p.Email,
			"telefono":        p.Telefono,
		},
		Message:  fmt.Sprintf("Voy a crear el cliente %q.", p.Nombre),
		Steps:    []string{"Creo el cliente", "Asocio contacto principal si aplica"},
		DeepLink: mod.DeepLink("/clientes"),
	}, nil
}

func (t *Tools) executeCreateClient(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	p := clientFrom(fields)
	if p.Nombre == nil {
		return tool.Failed("Falta el nombre del cliente.", nil), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Failed(msgNotConfigured, nil), nil
	}

	var created Lead
	if err := mod.Do(ctx, http.MethodPost, "/clientes", nil, p, &created); err != nil {
		return mod.Failure("No pude crear el cliente.", err), nil
	}
	nombre := created.Nombre
	if nombre == "" {
		nombre = fields.String("nombre")
	}
	var clienteID interface{}
	if created.ID > 0 {
		clienteID = int64(created.ID)
	}
	return &tool.ExecResult{
		Status:   tool.StatusOK,
		Result:   map[string]interface{}{"cliente_id": clienteID, "nombre": nombre},
		Message:  fmt.Sprintf("Listo. Cliente %q creado.", nombre),
		DeepLink: mod.DeepLink("/clientes"),
	}, nil
}
