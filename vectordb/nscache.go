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

import "sync"

// NamespaceCache memoizes "namespace already provisioned" facts per tenant,
// so repeated EnsureNamespace calls skip the live existence probe. Entries
// live for the process lifetime; there is no eviction. Safe for concurrent
// use by all ingestion workers.
type NamespaceCache struct {
	mu          sync.RWMutex
	provisioned map[string]bool
}

// NewNamespaceCache creates an empty cache.
func NewNamespaceCache() *NamespaceCache {
	return &NamespaceCache{provisioned: make(map[string]bool)}
}

// Has reports whether the tenant's namespace is known to be provisioned.
func (c *NamespaceCache) Has(tenantID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provisioned[tenantID]
}

// MarkProvisioned records that the tenant's namespace exists. Only call
// after the namespace is confirmed present or created; a failed creation
// must not poison the cache.
func (c *NamespaceCache) MarkProvisioned(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provisioned[tenantID] = true
}

// Len returns the number of cached namespaces.
func (c *NamespaceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.provisioned)
}
