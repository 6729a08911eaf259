package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/isometry/burst-config/pkg/bcctx"
)

// includesKey may appear at the top level, in any nested map and in any
// parameter set listed under a kind.
const includesKey = "includes"

// includeEntry tracks both path (for error messages) and content hash (for loop detection)
type includeEntry struct {
	Path string
	Hash string
}

// includeStack is the chain of files currently being included.
type includeStack []includeEntry

func contentHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8])
}

func (s includeStack) containsHash(hash string) bool {
	return slices.ContainsFunc(s, func(e includeEntry) bool {
		return e.Hash == hash
	})
}

// push returns a new stack. Sibling includes share a parent stack, so the
// parent's backing array is never written to.
func (s includeStack) push(path, hash string) includeStack {
	return append(slices.Clip(s), includeEntry{Path: path, Hash: hash})
}

func (s includeStack) cycle(path string) string {
	parts := make([]string, 0, len(s)+1)
	for _, entry := range s {
		parts = append(parts, entry.Path)
	}
	parts = append(parts, path+" (duplicate content)")
	return strings.Join(parts, " -> ")
}

// resolveIncludes expands the includes list of doc and of every nested map.
// Included documents are merged in order, then doc itself is merged on top.
// Paths are relative to basePath, the directory of the including file.
func resolveIncludes(doc map[string]any, basePath string, stack includeStack) (map[string]any, error) {
	raw, ok := doc[includesKey]
	if !ok {
		return resolveNested(doc, basePath, stack)
	}

	includes, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", includesKey)
	}

	merged := make(map[string]any)
	for _, inc := range includes {
		includePath, ok := inc.(string)
		if !ok {
			return nil, fmt.Errorf("include path must be a string, got %T", inc)
		}

		included, dir, hash, err := loadInclude(filepath.Join(basePath, includePath))
		if err != nil {
			return nil, fmt.Errorf("failed to load include %s: %w", includePath, err)
		}
		if stack.containsHash(hash) {
			return nil, fmt.Errorf("include loop detected: %s", stack.cycle(includePath))
		}

		resolved, err := resolveIncludes(included, dir, stack.push(includePath, hash))
		if err != nil {
			return nil, err
		}
		merged = deepMerge(merged, resolved)
	}

	local := maps.Clone(doc)
	delete(local, includesKey)
	local, err := resolveNested(local, basePath, stack)
	if err != nil {
		return nil, err
	}

	return deepMerge(merged, local), nil
}

// loadInclude reads a file named without extension, letting viper pick the format.
// The content is parsed by readDocument so included parameter names keep their case
// and the hash covers exactly the bytes parsed.
func loadInclude(pathWithoutExt string) (map[string]any, string, string, error) {
	v := bcctx.NewViper()
	v.AddConfigPath(filepath.Dir(pathWithoutExt))
	v.SetConfigName(filepath.Base(pathWithoutExt))
	if err := v.ReadInConfig(); err != nil {
		return nil, "", "", err
	}

	doc, content, err := readDocument(v)
	if err != nil {
		return nil, "", "", err
	}
	return doc, filepath.Dir(pathWithoutExt), contentHash(content), nil
}

// deepMerge returns src merged into a copy of dst:
// maps merge recursively, lists concatenate and scalars are replaced.
func deepMerge(dst, src map[string]any) map[string]any {
	result := maps.Clone(dst)
	if result == nil {
		result = make(map[string]any)
	}

	for k, v := range src {
		existing := result[k]

		switch srcVal := v.(type) {
		case map[string]any:
			if dstMap, ok := existing.(map[string]any); ok {
				result[k] = deepMerge(dstMap, srcVal)
			} else {
				result[k] = srcVal
			}
		case []any:
			if dstList, ok := existing.([]any); ok {
				// clipped so the append copies instead of extending dst's list in place
				result[k] = append(slices.Clip(dstList), srcVal...)
			} else {
				result[k] = srcVal
			}
		default:
			result[k] = v
		}
	}

	return result
}

func resolveNested(doc map[string]any, basePath string, stack includeStack) (map[string]any, error) {
	result := make(map[string]any, len(doc))

	for k, v := range doc {
		switch val := v.(type) {
		case map[string]any:
			resolved, err := resolveIncludes(val, basePath, stack)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", k, err)
			}
			result[k] = resolved
		case []any:
			// parameter sets are list entries, so their includes resolve too
			list := make([]any, len(val))
			for i, item := range val {
				if m, ok := item.(map[string]any); ok {
					resolved, err := resolveIncludes(m, basePath, stack)
					if err != nil {
						return nil, fmt.Errorf("in %s[%d]: %w", k, i, err)
					}
					list[i] = resolved
				} else {
					list[i] = item
				}
			}
			result[k] = list
		default:
			result[k] = v
		}
	}

	return result, nil
}
