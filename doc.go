// Package vaultai wires the document ingestion and question answering
// pipeline behind a single facade: extract, chunk, embed and store on the
// way in; embed, retrieve, prompt and complete on the way out.
package vaultai
