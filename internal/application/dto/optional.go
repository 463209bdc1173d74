package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalString distingue entre campo ausente, null explícito y valor
// en los cuerpos de PATCH/PUT.
//   - Set == false: el campo no venía en el JSON.
//   - Set == true, Value == nil: vino como null (limpiar la referencia).
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON solo se invoca cuando la clave está presente.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Apply devuelve el nuevo valor si el campo venía en el cuerpo, o current en otro caso.
func (o OptionalString) Apply(current *string) *string {
	if !o.Set {
		return current
	}
	if o.Value == nil || *o.Value == "" {
		return nil
	}
	v := *o.Value
	return &v
}
