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


package query

import "errors"

var (
	// ErrDeadlineExceeded indicates the request deadline elapsed mid-pipeline.
	ErrDeadlineExceeded = errors.New("query deadline exceeded")

	// ErrEmptyQuestion indicates a blank question.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrEmbedderRequired indicates no embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrCompleterRequired indicates no completer was provided.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrStoreRequired indicates no vector store was provided.
	ErrStoreRequired = errors.New("vector store is required")
)
