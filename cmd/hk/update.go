package main

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// bumpRevs rewrites the rev of each listed source in raw manifest
// content. Editing the yaml node tree instead of re-marshalling the
// parsed config preserves the user's comments and key order.
func bumpRevs(data []byte, updates map[string]string) ([]byte, bool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("invalid manifest: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, false, fmt.Errorf("empty manifest")
	}

	repos := mapValue(doc.Content[0], "repos")
	if repos == nil || repos.Kind != yaml.SequenceNode {
		return nil, false, fmt.Errorf("manifest has no repos list")
	}

	changed := false
	for _, src := range repos.Content {
		if src.Kind != yaml.MappingNode {
			continue
		}
		repo := mapValue(src, "repo")
		rev := mapValue(src, "rev")
		if repo == nil || rev == nil {
			continue
		}
		next, ok := updates[repo.Value]
		if !ok || next == rev.Value {
			continue
		}
		rev.Value = next
		changed = true
	}
	if !changed {
		return data, false, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Content[0]); err != nil {
		return nil, false, err
	}
	if err := enc.Close(); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

// mapValue returns the value node for a key in a yaml mapping.
func mapValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
