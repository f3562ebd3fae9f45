// Copyright 2025 The Vault AI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import "errors"

var (
	// ErrFileTooLarge indicates a single file exceeds the per-file limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrUploadTooLarge indicates a batch exceeds the aggregate upload limit.
	ErrUploadTooLarge = errors.New("upload exceeds aggregate size limit")

	// ErrEmbedderRequired indicates no embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrStoreRequired indicates no vector store was provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrChunkerRequired indicates no chunker was provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrExtractorRequired indicates no extractor was provided.
	ErrExtractorRequired = errors.New("extractor is required")
)
