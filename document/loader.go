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

package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// listDocuments returns the loadable files in dir, sorted by name so
// chunk ids stay stable across runs. Unsupported extensions are
// skipped, as are subdirectories.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".txt", ".md":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// loadText extracts the full text of a document file. PDF pages are
// joined with blank lines so the splitter sees one continuous text.
func loadText(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var docs []schema.Document
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		info, err := file.Stat()
		if err != nil {
			return "", err
		}
		docs, err = documentloaders.NewPDF(file, info.Size()).Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load pdf: %w", err)
		}
	} else {
		docs, err = documentloaders.NewText(file).Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load text: %w", err)
		}
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.PageContent)
	}

	return strings.Join(parts, "\n\n"), nil
}
