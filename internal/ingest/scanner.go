// Package ingest loads extracted document fragments from the staging
// directories and embeds them into the vector store. The staging
// layout is one subdirectory per fragment kind, with page numbers
// encoded in the filenames.
package ingest

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/docsift/docsift/internal/content"
)

// Staging subdirectories under the data root.
const (
	TextDir      = "text"
	TableDir     = "tables"
	ImageDir     = "images"
	PageImageDir = "page_images"
)

// Scanner reads staged fragments from a data directory.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the given data directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Scan walks all staging subdirectories and returns the fragments as
// content items in a deterministic order: text, tables, images, then
// page renders, each sorted by filename. Missing subdirectories are
// skipped silently so a text-only corpus ingests cleanly.
func (s *Scanner) Scan() ([]*content.Item, error) {
	var items []*content.Item

	scanners := []struct {
		dir string
		fn  func(path string) (*content.Item, error)
	}{
		{TextDir, s.textItem(content.KindText)},
		{TableDir, s.textItem(content.KindTable)},
		{ImageDir, s.imageItem},
		{PageImageDir, s.pageImageItem},
	}

	for _, sc := range scanners {
		dir := filepath.Join(s.root, sc.dir)
		names, err := listFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			item, err := sc.fn(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	return items, nil
}

// textItem builds a loader for text-bearing fragments. Text and table
// filenames look like <doc>_text_<page>_<n>.txt, with the page as the
// second-to-last underscore token.
func (s *Scanner) textItem(kind content.Kind) func(path string) (*content.Item, error) {
	return func(path string) (*content.Item, error) {
		page, err := pageFromTokens(path, 2)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fragment %s: %w", path, err)
		}
		return &content.Item{
			Page: page,
			Kind: kind,
			Text: string(data),
			Path: path,
		}, nil
	}
}

// imageItem loads an embedded figure. Filenames look like
// <doc>_image_<page>_<idx>_<xref>.png, page third from the end.
func (s *Scanner) imageItem(path string) (*content.Item, error) {
	page, err := pageFromTokens(path, 3)
	if err != nil {
		return nil, err
	}
	encoded, err := readImageBase64(path)
	if err != nil {
		return nil, err
	}
	return &content.Item{
		Page:  page,
		Kind:  content.KindImage,
		Image: encoded,
		Path:  path,
	}, nil
}

// pageImageItem loads a full-page render. Filenames look like
// page_NNN.png where NNN is the zero-based page number the extractor
// writes, so the very first render is page_000.png.
func (s *Scanner) pageImageItem(path string) (*content.Item, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tokens := strings.Split(base, "_")
	if len(tokens) < 2 {
		return nil, fmt.Errorf("unrecognized page image name %s", path)
	}
	n, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil {
		return nil, fmt.Errorf("page number in %s: %w", path, err)
	}
	encoded, err := readImageBase64(path)
	if err != nil {
		return nil, err
	}
	return &content.Item{
		Page:  n,
		Kind:  content.KindPageImage,
		Image: encoded,
		Path:  path,
	}, nil
}

// pageFromTokens extracts the page number from a fragment filename,
// counting underscore tokens from the end.
func pageFromTokens(path string, fromEnd int) (int, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tokens := strings.Split(base, "_")
	if len(tokens) < fromEnd+1 {
		return 0, fmt.Errorf("unrecognized fragment name %s", path)
	}
	page, err := strconv.Atoi(tokens[len(tokens)-fromEnd])
	if err != nil {
		return 0, fmt.Errorf("page number in %s: %w", path, err)
	}
	return page, nil
}

func readImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// listFiles returns the regular files in dir sorted by name. A missing
// directory returns an empty list.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read staging dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
