package tool

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields é o mapa de campos de uma ação. Campos não extraídos ficam com valor nil.
type Fields map[string]interface{}

// Clone copia o mapa
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge devolve uma cópia com os valores não vazios de other sobrepostos
func (f Fields) Merge(other Fields) Fields {
	out := f.Clone()
	for k, v := range other {
		if isBlank(v) {
			if _, exists := out[k]; !exists {
				out[k] = nil
			}
			continue
		}
		out[k] = v
	}
	return out
}

// IsBlank informa se o campo está ausente, nil, vazio ou zero
func (f Fields) IsBlank(key string) bool {
	v, ok := f[key]
	if !ok {
		return true
	}
	return isBlank(v)
}

// Missing devolve os campos obrigatórios ausentes, na ordem declarada
func (f Fields) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if f.IsBlank(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// String devolve o campo como texto aparado
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Int devolve o campo como inteiro quando representável
func (f Fields) Int(key string) (int64, bool) {
	switch v := f[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Float devolve o campo como número
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func isBlank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case int64:
		return x == 0
	case int:
		return x == 0
	case float64:
		return x == 0
	case json.Number:
		return x.String() == "" || x.String() == "0"
	}
	return false
}

// DecodeFields lê um JSON preservando números como json.Number
func DecodeFields(data []byte) (Fields, error) {
	out := Fields{}
	if len(data) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Fields{}
	}
	return out, nil
}
