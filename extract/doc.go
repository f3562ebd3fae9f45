// Package extract turns uploaded file contents into plain text suitable
// for chunking. Extractors are selected by content type; binary formats
// such as PDF delegate to an injected converter.
package extract
