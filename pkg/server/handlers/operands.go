package handlers

import (
	"net/http"

	"mercator-hq/odrlcheck/pkg/odrl/registry"
)

// Operand is the JSON form of a registry entry.
type Operand struct {
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Label      string   `json:"label,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Operators  []string `json:"operators"`
	ValueType  string   `json:"value_type,omitempty"`
}

// OperandsResponse is the body of GET /v1/operands.
type OperandsResponse struct {
	Count    int       `json:"count"`
	Operands []Operand `json:"operands"`
}

// NewOperandsResponse converts reg into its JSON form.
func NewOperandsResponse(reg *registry.Registry) OperandsResponse {
	resp := OperandsResponse{Count: reg.Len(), Operands: make([]Operand, 0, reg.Len())}
	for _, op := range reg.Operands() {
		resp.Operands = append(resp.Operands, Operand{
			Name:       op.Name(),
			URI:        op.URI,
			Label:      op.Label,
			Definition: op.Definition,
			Operators:  op.OperatorNames(),
			ValueType:  op.ValueType,
		})
	}
	return resp
}

// OperandsHandler serves GET /v1/operands. The registry is immutable, so
// the response is built once.
func OperandsHandler(reg *registry.Registry) http.HandlerFunc {
	resp := NewOperandsResponse(reg)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
