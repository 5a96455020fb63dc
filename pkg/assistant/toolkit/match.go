package toolkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxCandidates é quantos candidatos são listados ao pedir desambiguação
const MaxCandidates = 5

// Candidate é um registro remoto que pode corresponder ao nome informado
type Candidate struct {
	ID    int64
	Label string
}

// Outcome é o resultado da desambiguação
type Outcome int

const (
	// NoMatch indica que não houve candidatos
	NoMatch Outcome = iota
	// Picked indica que um único candidato foi escolhido
	Picked
	// Ambiguous indica que é preciso perguntar ao usuário
	Ambiguous
)

// Pick aplica a regra: um único match exato vence; senão um único candidato vence;
// senão pergunta. Vários matches exatos também perguntam.
func Pick(query string, candidates []Candidate) (Candidate, Outcome) {
	if len(candidates) == 0 {
		return Candidate{}, NoMatch
	}
	q := normalize(query)
	var exact []Candidate
	for _, c := range candidates {
		if normalize(c.Label) == q {
			exact = append(exact, c)
		}
	}
	switch {
	case len(exact) == 1:
		return exact[0], Picked
	case len(exact) > 1:
		return Candidate{}, Ambiguous
	case len(candidates) == 1:
		return candidates[0], Picked
	}
	return Candidate{}, Ambiguous
}

// ListCandidates formata até MaxCandidates itens como "#id - nome"
func ListCandidates(candidates []Candidate) string {
	n := len(candidates)
	if n > MaxCandidates {
		n = MaxCandidates
	}
	parts := make([]string, 0, n)
	for _, c := range candidates[:n] {
		parts = append(parts, fmt.Sprintf("#%d - %s", c.ID, c.Label))
	}
	return strings.Join(parts, ", ")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FlexInt aceita ids enviados como número ou texto
type FlexInt int64

// UnmarshalJSON implementa json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("id inválido %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// FlexFloat aceita quantidades enviadas como número ou texto
type FlexFloat float64

// UnmarshalJSON implementa json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexFloat(n)
	return nil
}

// Text devolve o texto aparado do campo, ou nil quando vazio
func Text(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
