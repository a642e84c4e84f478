// Package value models the values an editing UI submits for a node's
// configuration as a closed tagged union (absent, null, string, number,
// boolean, list, object). Consumers switch on Kind instead of inspecting
// arbitrary Go types, which keeps the type-directed checks in the validation
// package exhaustive.
package value
