package stock

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
)

func (t *Tools) planCreateProduct(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.PlanResult, error) {
	nombre := fields.String("nombre")
	almacenID, _ := fields.Int("almacen_id")
	if nombre == "" {
		return tool.Ask("Como se llama el producto?", "nombre"), nil
	}
	if almacenID <= 0 {
		return tool.Ask("Necesito el id del almacen para crear el producto.", "almacen_id"), nil
	}

	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Reject(msgNotConfigured), nil
	}

	var almacenes []Almacen
	if err := mod.Get(ctx, "/almacenes", nil, &almacenes); err != nil {
		return tool.Reject("No encontre ese almacen en Stock."), nil
	}
	var almacen *Almacen
	for i := range almacenes {
		if int64(almacenes[i].ID) == almacenID {
			almacen = &almacenes[i]
			break
		}
	}
	if almacen == nil {
		return tool.Reject("No encontre ese almacen en Stock."), nil
	}

	label := almacen.Nombre
	if label == "" {
		label = strconv.FormatInt(almacenID, 10)
	}
	return &tool.PlanResult{
		Status:   tool.StatusOK,
		Fields:   tool.Fields{"nombre": nombre, "almacen_id": almacenID},
		Preview:  map[string]interface{}{"nombre": nombre, "almacen_id": almacenID, "almacen": almacen.Nombre},
		Message:  fmt.Sprintf("Voy a crear el producto %q en el almacen %s.", nombre, label),
		Steps:    []string{"Valido el almacen", "Creo el producto", "Queda disponible en inventario"},
		DeepLink: mod.DeepLink("/productos"),
	}, nil
}

func (t *Tools) executeCreateProduct(ctx context.Context, fields tool.Fields, caller tool.Caller) (*tool.ExecResult, error) {
	nombre := fields.String("nombre")
	almacenID, _ := fields.Int("almacen_id")
	if nombre == "" || almacenID <= 0 {
		return tool.Failed("Faltan datos para crear el producto.", nil), nil
	}
	mod := t.backend.Module(ctx, caller, Module)
	if !mod.Configured() {
		return tool.Failed(msgNotConfigured, nil), nil
	}

	var created Product
	body := map[string]interface{}{"nombre": nombre, "almacen_id": almacenID}
	if err := mod.Do(ctx, http.MethodPost, "/productos", nil, body, &created); err != nil {
		return mod.Failure("No pude crear el producto.", err), nil
	}

	result := map[string]interface{}{"producto_id": nil, "nombre": nombre, "almacen_id": almacenID}
	if created.ID > 0 {
		result["producto_id"] = int64(created.ID)
	}
	if created.Nombre != "" {
		result["nombre"] = created.Nombre
	}
	if created.AlmacenID > 0 {
		result["almacen_id"] = int64(created.AlmacenID)
	}
	return &tool.ExecResult{
		Status:   tool.StatusOK,
		Result:   result,
		Message:  fmt.Sprintf("Listo. Producto %q creado.", nombre),
		DeepLink: mod.DeepLink("/productos"),
	}, nil
}
