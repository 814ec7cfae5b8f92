package sparql

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/REFORMERS-EnergyValleys/reformers-dt-wind-gen-fc-model/internal/domain"
)

// Datatype IRIs the endpoint tags literal cells with.
const (
	DatatypeDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	DatatypeJSON    = "https://www.w3.org/2019/wot/json-schema#Json"
)

// DecoderFunc turns the raw text of a typed literal into a domain value.
type DecoderFunc func(raw string) (domain.Value, error)

// decoders maps a datatype IRI to its literal decoder. Cells with an
// unlisted datatype fall through to kind-based decoding (blank nodes get a
// "_:" prefix, everything else stays a string). New datatypes such as
// integers or dates are added here.
var decoders = map[string]DecoderFunc{
	DatatypeDecimal: decodeDecimal,
	DatatypeJSON:    decodeJSON,
}

// binding is one cell of a SPARQL JSON result.
type binding struct {
	Type     string `json:"type"`
	Datatype string `json:"datatype,omitempty"`
	Value    string `json:"value"`
}

// decodeCell dispatches on the cell's datatype tag, then on its node kind.
func decodeCell(b binding) (domain.Value, error) {
	if dec, ok := decoders[b.Datatype]; ok {
		return dec(b.Value)
	}
	if b.Type == "bnode" {
		return "_:" + b.Value, nil
	}
	return b.Value, nil
}

func decodeDecimal(raw string) (domain.Value, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("decode decimal literal %q: %w", raw, err)
	}
	return f, nil
}

func decodeJSON(raw string) (domain.Value, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode Json literal: %w", err)
	}
	return v, nil
}
