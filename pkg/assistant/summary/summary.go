// Package summary monta os resumos somente leitura a partir das tarefas e do
// kanban do CRM e dos movimentos de Stock.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugohenrick/vex-core/pkg/assistant/intent"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/assistant/toolkit"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/crm"
	"github.com/hugohenrick/vex-core/pkg/assistant/tools/stock"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// MaxItems é o máximo de itens por grupo
const MaxItems = 5

// ErrUnknownKind indica um tipo de resumo desconhecido
var ErrUnknownKind = errors.New("tipo de resumo desconhecido")

// Digest é um resumo pronto para a resposta
type Digest struct {
	Kind     string        `json:"summary_type"`
	Text     string        `json:"text"`
	Items    []interface{} `json:"items"`
	DeepLink string        `json:"deep_link,omitempty"`
}

// TaskItem é uma tarefa no resumo
type TaskItem struct {
	ID      *int64  `json:"id"`
	Title   string  `json:"title"`
	DueAt   *string `json:"due_at"`
	Cliente *string `json:"cliente"`
	Estado  *string `json:"estado"`
}

// LeadItem é um lead no resumo
type LeadItem struct {
	ID      *int64  `json:"id"`
	Nombre  string  `json:"nombre"`
	Stage   *string `json:"stage"`
	DueDate *string `json:"due_date"`
}

// MovementItem é um movimento de estoque no resumo
type MovementItem struct {
	ID         *int64   `json:"id"`
	ProductoID *int64   `json:"producto_id"`
	Cantidad   *float64 `json:"cantidad"`
	Fecha      *string  `json:"fecha"`
}

// Service calcula os resumos
type Service struct {
	backend *toolkit.Backend
	log     logger.Logger
	now     func() time.Time
}

// NewService cria o serviço de resumos
func NewService(backend *toolkit.Backend, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{backend: backend, log: log, now: time.Now}
}

// WithClock troca o relógio; o fuso do instante define o "hoje"
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

type sources struct {
	tasks     []crm.Task
	columns   []crm.KanbanColumn
	movements []stock.Movement
	crm       *toolkit.Module
}

// fetch busca as três fontes em paralelo. Fonte indisponível conta como vazia.
func (s *Service) fetch(ctx context.Context, caller tool.Caller) sources {
	src := sources{crm: s.backend.Module(ctx, caller, crm.Module)}
	stk := s.backend.Module(ctx, caller, stock.Module)

	var g errgroup.Group
	if src.crm.Configured() {
		g.Go(func() error {
			if err := src.crm.Get(ctx, "/tareas", map[string]string{"limit": "200", "offset": "0"}, &src.tasks); err != nil {
				s.log.Warn("Resumo sem tarefas do CRM", "error", err.Error())
				src.tasks = nil
			}
			return nil
		})
		g.Go(func() error {
			var k crm.Kanban
			if err := src.crm.Get(ctx, "/kanban/clientes", nil, &k); err != nil {
				s.log.Warn("Resumo sem kanban do CRM", "error", err.Error())
				return nil
			}
			src.columns = k.Columns
			return nil
		})
	}
	if stk.Configured() {
		g.Go(func() error {
			if err := stk.Get(ctx, "/movimientos", nil, &src.movements); err != nil {
				s.log.Warn("Resumo sem movimentos de Stock", "error", err.Error())
				src.movements = nil
			}
			return nil
		})
	}
	_ = g.Wait()
	return src
}

// Build monta o resumo do tipo pedido
func (s *Service) Build(ctx context.Context, caller tool.Caller, kind string) (*Digest, error) {
	switch kind {
	case intent.SummaryDaily, intent.SummaryWeekly, intent.SummaryOverdue,
		intent.SummaryUpcoming, intent.SummaryColdLeads, intent.SummaryTop5Today:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	src := s.fetch(ctx, caller)
	now := s.now()
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	todayEnd := todayStart.Add(24*time.Hour - time.Millisecond)
	weekEnd := todayStart.Add(7 * 24 * time.Hour)

	var overdue, dueToday, dueWeek, open []crm.Task
	for _, t := range src.tasks {
		if t.Completada {
			continue
		}
		due, ok := parseDateIn(t.VenceEn, loc)
		if !ok {
			continue
		}
		open = append(open, t)
		if due.Before(todayStart) {
			overdue = append(overdue, t)
		}
		if inRange(due, todayStart, todayEnd) {
			dueToday = append(dueToday, t)
		}
		if inRange(due, todayStart, weekEnd) {
			dueWeek = append(dueWeek, t)
		}
	}

	var upcomingLeads, coldLeads []crm.Lead
	for _, col := range src.columns {
		for _, l := range col.Items {
			if due, ok := parseDateIn(l.DueDate, loc); ok && inRange(due, todayStart, weekEnd) {
				upcomingLeads = append(upcomingLeads, l)
			}
		}
		if isColdColumn(col) {
			coldLeads = append(coldLeads, col.Items...)
		}
	}

	var movesToday, movesWeek []stock.Movement
	for _, m := range src.movements {
		when := m.Fecha
		if when == "" {
			when = m.CreatedAt
		}
		at, ok := parseDateIn(when, loc)
		if !ok {
			continue
		}
		if inRange(at, todayStart, todayEnd) {
			movesToday = append(movesToday, m)
		}
		if inRange(at, todayStart, weekEnd) {
			movesWeek = append(movesWeek, m)
		}
	}

	tasksLink := src.crm.DeepLink("/tareas")
	kanbanLink := src.crm.DeepLink("/kanban/clientes")

	d := &Digest{Kind: kind, Items: []interface{}{}}
	switch kind {
	case intent.SummaryDaily:
		d.Text = fmt.Sprintf("Resumen de hoy: %d tareas vencen hoy y %d movimientos de stock.", len(dueToday), len(movesToday))
		d.Items = append(taskItems(dueToday), movementItems(movesToday)...)
		d.DeepLink = tasksLink
	case intent.SummaryWeekly:
		d.Text = fmt.Sprintf("Resumen semanal: %d tareas con vencimiento y %d movimientos de stock.", len(dueWeek), len(movesWeek))
		d.Items = append(taskItems(dueWeek), movementItems(movesWeek)...)
		d.DeepLink = tasksLink
	case intent.SummaryOverdue:
		d.Text = fmt.Sprintf("Hay %d tareas atrasadas.", len(overdue))
		d.Items = taskItems(overdue)
		d.DeepLink = tasksLink
	case intent.SummaryUpcoming:
		d.Text = fmt.Sprintf("Vencimientos proximos: %d tareas y %d leads en la semana.", len(dueWeek), len(upcomingLeads))
		d.Items = append(taskItems(dueWeek), leadItems(upcomingLeads)...)
		d.DeepLink = kanbanLink
	case intent.SummaryColdLeads:
		d.Text = fmt.Sprintf("Oportunidades frias: %d leads en riesgo.", len(coldLeads))
		d.Items = leadItems(coldLeads)
		d.DeepLink = kanbanLink
	case intent.SummaryTop5Today:
		candidates := dueToday
		if len(candidates) == 0 {
			candidates = open
		}
		sorted := append([]crm.Task(nil), candidates...)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, _ := parseDateIn(sorted[i].VenceEn, loc)
			b, _ := parseDateIn(sorted[j].VenceEn, loc)
			return a.Before(b)
		})
		d.Text = "Top 5 para hoy."
		d.Items = taskItems(sorted)
		d.DeepLink = tasksLink
	}
	return d, nil
}

func isColdColumn(col crm.KanbanColumn) bool {
	key := col.Key
	if key == "" {
		key = col.Title
	}
	key = strings.ToLower(key)
	return strings.Contains(key, "follow") || strings.Contains(key, "unqualified")
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDateIn aceita datas ISO com ou sem hora; datas sem fuso usam loc
func parseDateIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	return parseDateIn(s, time.UTC)
}
