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


package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// Pruner removes memory records whose form no longer exists in the document
// store. Form deletion does not cascade into the memory index, so orphaned
// records accumulate until a prune pass reclaims them.
type Pruner struct {
	memory   storage.MemoryRepository
	forms    storage.FormRepository
	config   *Config
	progress io.Writer
	iterator *RecordIterator
}

// NewPruner creates a new pruner.
// progress: where to write progress output (typically os.Stderr)
func NewPruner(memory storage.MemoryRepository, forms storage.FormRepository, config *Config, progress io.Writer) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	return &Pruner{
		memory:   memory,
		forms:    forms,
		config:   config,
		progress: progress,
		iterator: NewRecordIterator(memory, config.BatchSize),
	}
}

// Run scans all memory records and deletes those whose form is gone.
// Returns the number of records pruned.
func (p *Pruner) Run(ctx context.Context) (int, error) {
	allRecords, err := p.memory.AllRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}

	totalRecords := len(allRecords)
	if totalRecords == 0 {
		fmt.Fprintf(p.progress, "No memory records found (0 records)\n")
		return 0, nil
	}

	fmt.Fprintf(p.progress, "Scanning %d memory records for orphans\n", totalRecords)

	tracker := NewProgressTracker(p.progress, totalRecords, p.config.ReportInterval)
	tracker.Start()

	pruned := 0
	scanned := 0
	err = p.iterator.ForEach(ctx, func(records []*core.MemoryRecord) error {
		var orphans []core.ID
		for _, record := range records {
			_, err := p.forms.GetForm(ctx, record.Id)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					orphans = append(orphans, record.Id)
					continue
				}
				return err
			}
		}

		if len(orphans) > 0 {
			if err := p.memory.DeleteRecords(ctx, orphans...); err != nil {
				return fmt.Errorf("failed to delete orphaned records: %w", err)
			}
			pruned += len(orphans)
		}

		scanned += len(records)
		tracker.Update(scanned)
		return nil
	})

	if err != nil {
		return pruned, err
	}

	tracker.Finish()
	fmt.Fprintf(p.progress, "Prune complete. Removed %d of %d records\n", pruned, totalRecords)

	return pruned, nil
}
