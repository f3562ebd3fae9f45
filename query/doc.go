// Package query answers natural-language questions over ingested
// documents: embed the question, retrieve the closest chunks for the
// tenant, assemble a token-budgeted prompt and call the language model.
package query
