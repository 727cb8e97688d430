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


package retrieval

import "errors"

var (
	// ErrMemoryRepositoryRequired is returned when a memory repository is not provided.
	ErrMemoryRepositoryRequired = errors.New("memory repository required")

	// ErrFormRepositoryRequired is returned when a form repository is not provided.
	ErrFormRepositoryRequired = errors.New("form repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuery is returned when a search query is empty.
	ErrEmptyQuery = errors.New("query must not be empty")
)
