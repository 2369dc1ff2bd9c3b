// Copyright 2025 Poiesic Systems
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


// Package ai provides abstractions for the external AI services.
//
// It defines interfaces for text embeddings and prompt completion,
// following the dependency inversion principle: the ingestion and
// query pipelines depend on these abstractions rather than on any
// concrete provider.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation backed by OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles
//
// Public constructors in the implementation packages return interface
// types to enforce abstraction; mock constructors return concrete
// types so tests can inject behavior and make assertions.
package ai
