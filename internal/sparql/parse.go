package sparql

import (
	"encoding/json"
	"fmt"
)

// Binding maps variable names to typed values for one result row.
type Binding map[string]Value

// ResultSet is an ordered sequence of typed bindings plus the declared
// variable list. Binding order is the query's order; rows are never
// deduplicated here.
type ResultSet struct {
	Variables []string
	Bindings  []Binding
}

// PrimaryVariable returns the first declared variable name. Every
// later stage uses it to locate the row's entity.
func (r *ResultSet) PrimaryVariable() string {
	return r.Variables[0]
}

type rawValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype"`
}

type rawDocument struct {
	Head *struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]rawValue `json:"bindings"`
	} `json:"results"`
}

// Parse decodes a SPARQL JSON result document. Structural problems
// (missing head.vars, missing results.bindings, an unclassifiable
// bound value) are fatal. Rows with zero bindings are skipped; all
// other rows are kept in document order.
func Parse(data []byte) (*ResultSet, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode SPARQL result document: %w", err)
	}
	if doc.Head == nil || len(doc.Head.Vars) == 0 {
		return nil, fmt.Errorf("bad SPARQL result: missing head.vars")
	}
	if doc.Results == nil || doc.Results.Bindings == nil {
		return nil, fmt.Errorf("bad SPARQL result: missing results.bindings")
	}

	rs := &ResultSet{
		Variables: doc.Head.Vars,
		Bindings:  make([]Binding, 0, len(doc.Results.Bindings)),
	}
	for i, row := range doc.Results.Bindings {
		if len(row) == 0 {
			continue
		}
		b := make(Binding, len(row))
		for name, raw := range row {
			v, err := classifyValue(raw)
			if err != nil {
				return nil, fmt.Errorf("binding %d, variable %q: %w", i, name, err)
			}
			b[name] = v
		}
		rs.Bindings = append(rs.Bindings, b)
	}
	return rs, nil
}
