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


package vectordb

import "errors"

var (
	// ErrNamespace indicates a namespace existence probe or creation failed.
	ErrNamespace = errors.New("namespace operation failed")

	// ErrUpsert indicates the backend rejected an upsert request. Wrapped
	// errors carry the backend status.
	ErrUpsert = errors.New("upsert failed")

	// ErrRetrieval indicates the backend rejected a query request. Wrapped
	// errors carry the backend status.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrUnknownBackend indicates an unrecognized backend kind in the
	// configuration.
	ErrUnknownBackend = errors.New("unknown vector store backend")
)
