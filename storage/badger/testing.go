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


package badger

import "github.com/poiesic/formgen/storage"

// NewMemoryRepositories creates in-memory form, submission, and memory
// repositories for testing. Returns formRepo, submissionRepo, memoryRepo,
// backend, and error. Caller must close the repos and backend when done.
func NewMemoryRepositories() (storage.FormRepository, storage.SubmissionRepository, storage.MemoryRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	formRepo, err := NewFormRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	submissionRepo, err := NewSubmissionRepository(backend)
	if err != nil {
		formRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	memoryRepo := NewMemoryRepository(backend)

	return formRepo, submissionRepo, memoryRepo, backend, nil
}
