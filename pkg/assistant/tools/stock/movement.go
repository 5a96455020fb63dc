package stock

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

func (t *Tools) planRegisterMovement(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	productoID, _ := fields.Int("producto_id")
	productoNombre := fields.String("producto_nombre")
	cantidad, _ := fields.Float("cantidad")
	origen, _ := fields.Int("almacen_origen")
	destino, _ := fields.Int("almacen_destino")

	switch {
	case productoID <= 0 && productoNombre == "":
		return tool.Ask("Necesito el id o el nombre del producto.", "producto"), nil
	case cantidad <= 0:
		return tool.Ask("Cuanta cantidad?", "cantidad"), nil
	case origen <= 0:
		return tool.Ask("Necesito el id del almacen de origen.", "almacen_origen"), nil
	case destino <= 0:
		return tool.Ask("Necesito el id del almacen de destino.", "almacen_destino"), nil
	case origen == destino:
		return tool.Reject("Origen y destino no pueden ser iguales."), nil
	}

	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Reject(msgNotConfigured), nil
	}

	if productoID <= 0 {
		var productos []Product
		if err := mod.Get(ctx, "/productos", map[string]string{"q": productoNombre}, &productos); err != nil {
			return tool.Reject("No pude buscar productos en Stock."), nil
		}
		var candidates []toolkit.Candidate
		for _, p := range productos {
			if int64(p.AlmacenID) == origen {
				candidates = append(candidates, toolkit.Candidate{ID: int64(p.ID), Label: p.Nombre})
			}
		}
		pick, outcome := toolkit.Pick(productoNombre, candidates)
		switch outcome {
		case toolkit.NoMatch:
			return tool.Reject("No encontre un producto con ese nombre en el almacen de origen."), nil
		case toolkit.Ambiguous:
			return tool.Ask("Hay varios productos. Decime el id exacto. Ej: "+toolkit.ListCandidates(candidates), "producto"), nil
		}
		productoID = pick.ID
		productoNombre = pick.Label
	}

	var nombre interface{}
	if productoNombre != "" {
		nombre = productoNombre
	}
	return &tool.PlanResult{
		Status: tool.StatusOK,
		Fields: tool.Fields{
			"producto_id":     productoID,
			"cantidad":        cantidad,
			"almacen_origen":  origen,
			"almacen_destino": destino,
		},
		Preview: map[string]interface{}{
			"producto_id":     productoID,
			"producto_nombre": nombre,
			"cantidad":        cantidad,
			"almacen_origen":  origen,
			"almacen_destino": destino,
		},
		Message:  fmt.Sprintf("Voy a registrar un movimiento de %s unidades.", formatQty(cantidad)),
		Steps:    []string{"Valido stock en origen", "Registro el traslado", "Actualizo inventario"},
		DeepLink: mod.DeepLink("/movimientos"),
	}, nil
}

func (t *Tools) executeRegisterMovement(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	productoID, _ := fields.Int("producto_id")
	cantidad, _ := fields.Float("cantidad")
	origen, _ := fields.Int("almacen_origen")
	destino, _ := fields.Int("almacen_destino")
	if productoID <= 0 || cantidad <= 0 || origen <= 0 || destino <= 0 {
		return tool.Failed("Faltan datos para registrar el movimiento.", nil), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Failed(msgNotConfigured, nil), nil
	}

	payload := map[string]interface{}{
		"producto_id":     productoID,
		"cantidad":        cantidad,
		"almacen_origen":  origen,
		"almacen_destino": destino,
	}
	if err := mod.Do(ctx, http.MethodPost, "/traslados", nil, payload, nil); err != nil {
		return mod.Failure("No pude registrar el movimiento.", err), nil
	}
	return &tool.ExecResult{
		Status:   tool.StatusOK,
		Result:   payload,
		Message:  "Listo. Movimiento registrado.",
		DeepLink: mod.DeepLink("/movimientos"),
	}, nil
}

func formatQty(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
