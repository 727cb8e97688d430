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


// Package retrieval reads the vector memory index on behalf of the two
// consumers that need it.
//
// The Retriever feeds the generation pipeline: it embeds the prompt, queries
// the owner's partition of the memory index, and returns prior forms as
// context entries. It is deliberately infallible — a missing or broken memory
// store means generating without context, never refusing to generate.
//
// The Searcher serves user-facing search over existing forms. It runs the
// same embed-and-query flow, then joins the matches against the document
// store in similarity order, dropping records whose form has been deleted.
// Unlike the Retriever it can fail: a document-store error is a real fault,
// not a degradation.
package retrieval
