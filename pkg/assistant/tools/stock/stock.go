// Package stock implementa as ferramentas do assistente que operam sobre a API de Stock.
package stock

import (
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
)

// Module é o nome do módulo remoto
const Module = "stock"

const msgNotConfigured = "No tengo configurado el API de Stock."

// Almacen é um depósito
type Almacen struct {
	ID     toolkit.FlexInt `json:"id"`
	Nombre string          `json:"nombre"`
}

// Product é um produto cadastrado
type Product struct {
	ID        toolkit.FlexInt `json:"id"`
	Nombre    string          `json:"nombre"`
	AlmacenID toolkit.FlexInt `json:"almacen_id"`
}

// Movement é um movimento de estoque
type Movement struct {
	ID         toolkit.FlexInt   `json:"id"`
	ProductoID toolkit.FlexInt   `json:"producto_id"`
	Cantidad   toolkit.FlexFloat `json:"cantidad"`
	Fecha      string            `json:"fecha"`
	CreatedAt  string            `json:"created_at"`
}

// Tools agrupa as ferramentas de Stock
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
			Name:     tool.CreateProduct,
			Module:   Module,
			Action:   "create_product",
			Required: []string{"nombre", "almacen_id"},
			Plan:     t.planCreateProduct,
			Execute:  t.executeCreateProduct,
		},
		{
			Name:     tool.RegisterMovement,
			Module:   Module,
			Action:   "register_movement",
			Required: []string{"cantidad", "almacen_origen", "almacen_destino"},
			Plan:     t.planRegisterMovement,
			Execute:  t.executeRegisterMovement,
		},
	}
}
