package summary

import (
	"strings"

	"github.com/hugohenrick/vex-core/pkg/assistant/tools/crm"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/stock"
)

func taskItems(tasks []crm.Task) []interface{} {
	out := []interface{}{}
	for _, t := range limit(len(tasks)) {
		task := tasks[t]
		out = append(out, TaskItem{
			ID:      idPtr(int64(task.ID)),
			Title:   textOr(task.Titulo, "Tarea"),
			DueAt:   dayPtr(task.VenceEn),
			Cliente: strPtr(task.ClienteNombre),
			Estado:  strPtr(task.Estado),
		})
	}
	return out
}

func leadItems(leads []crm.Lead) []interface{} {
	out := []interface{}{}
	for _, i := range limit(len(leads)) {
		l := leads[i]
		stage := l.Stage
		if stage == "" {
			stage = l.Categoria
		}
		out = append(out, LeadItem{
			ID:      idPtr(int64(l.ID)),
			Nombre:  textOr(l.Nombre, "Lead"),
			Stage:   strPtr(stage),
			DueDate: dayPtr(l.DueDate),
		})
	}
	return out
}

func movementItems(moves []stock.Movement) []interface{} {
	out := []interface{}{}
	for _, i := range limit(len(moves)) {
		m := moves[i]
		item := MovementItem{
			ID:         idPtr(int64(m.ID)),
			ProductoID: idPtr(int64(m.ProductoID)),
			Fecha:      dayPtr(m.Fecha),
		}
		if m.Cantidad != 0 {
			q := float64(m.Cantidad)
			item.Cantidad = &q
		}
		out = append(out, item)
	}
	return out
}

// limit devolve os índices dos primeiros MaxItems
func limit(n int) []int {
	if n > MaxItems {
		n = MaxItems
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func textOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

func strPtr(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func idPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func dayPtr(s string) *string {
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	day := t.Format("2006-01-02")
	return &day
}
