// Package prompt assembles token-budgeted prompts from ranked retrieval
// contexts. Contexts are included greedily in relevance order until the
// token budget would be exceeded.
package prompt
