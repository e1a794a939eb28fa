// Package sparql parses SPARQL query-result documents into ordered,
// typed variable bindings.
//
// Value is a sealed sum type: every bound value is classified into
// exactly one variant by its {type, value, datatype} triple. A value
// that cannot be classified is a fatal parse error for the whole run;
// unlike the column grammar there is no degrade path, because an
// unrecognized binding would silently drop data.
package sparql
