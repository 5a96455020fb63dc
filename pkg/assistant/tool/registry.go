package tool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Erros de montagem do registro
var (
	ErrInvalidDescriptor = errors.New("descritor de ferramenta inválido")
	ErrDuplicateTool     = errors.New("ferramenta registrada mais de uma vez")
	ErrMissingTool       = errors.New("ferramenta sem implementação registrada")
)

// Registry mapeia nome -> descritor. É somente leitura depois de criado.
type Registry struct {
	tools map[Name]Descriptor
	order []Name
}

// NewRegistry valida e registra os descritores
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{tools: make(map[Name]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := validate(d); err != nil {
			return nil, err
		}
		if _, exists := r.tools[d.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, d.Name)
		}
		d.Required = append([]string(nil), d.Required...)
		r.tools[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// RequireAll garante que todos os nomes informados possuem implementação
func (r *Registry) RequireAll(names []Name) error {
	var missing []string
	for _, n := range names {
		if _, ok := r.tools[n]; !ok {
			missing = append(missing, string(n))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingTool, strings.Join(missing, ", "))
	}
	return nil
}

// Get busca o descritor pelo nome
func (r *Registry) Get(name Name) (Descriptor, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// List devolve os descritores na ordem de registro
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tools[n])
	}
	return out
}

func validate(d Descriptor) error {
	if d.Name == "" || d.Module == "" || d.Action == "" {
		return fmt.Errorf("%w: nome, módulo e ação são obrigatórios", ErrInvalidDescriptor)
	}
	if string(d.Name) != d.Module+"."+d.Action {
		return fmt.Errorf("%w: %s não corresponde a %s.%s", ErrInvalidDescriptor, d.Name, d.Module, d.Action)
	}
	if d.Plan == nil || d.Execute == nil {
		return fmt.Errorf("%w: %s sem plan ou execute", ErrInvalidDescriptor, d.Name)
	}
	return nil
}
