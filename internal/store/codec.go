/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"jgraph/internal/graphmodel"
)

// encoding/json sorts map[string]interface{} keys alphabetically when
// marshaling and marshals a nil map/slice as "null"; canonicalEmptyObject
// and canonicalEmptyArray below are the only places that correct the latter, so there is no
// separate JSON library to reach for here.

func canonicalEmptyObject(b []byte) []byte {
	if string(b) == "null" {
		return []byte("{}")
	}
	return b
}

func canonicalEmptyArray(b []byte) []byte {
	if string(b) == "null" {
		return []byte("[]")
	}
	return b
}

func encodeProperties(n graphmodel.Node) ([]byte, error) {
	b, err := json.Marshal(n.Properties())
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}
	return canonicalEmptyObject(b), nil
}

func decodeProperties(dec *graphmodel.Decorator, raw []byte) error {
	var props map[string]interface{}
	if err := json.Unmarshal(raw, &props); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	for _, k := range sortedKeys(props) {
		if err := dec.SetProperty(k, props[k]); err != nil {
			return fmt.Errorf("decode property %q: %w", k, err)
		}
	}
	return nil
}

func encodeMetrics(n graphmodel.Node) ([]byte, error) {
	b, err := json.Marshal(n.Metrics())
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	return canonicalEmptyObject(b), nil
}

func decodeMetrics(dec *graphmodel.Decorator, raw []byte) error {
	var metrics map[string]float64
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return fmt.Errorf("decode metrics: %w", err)
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := dec.SetMetric(k, metrics[k]); err != nil {
			return fmt.Errorf("decode metric %q: %w", k, err)
		}
	}
	return nil
}

func encodeTags(n graphmodel.Node) ([]byte, error) {
	b, err := json.Marshal(n.Tags()) // Tags() already returns a sorted, deduplicated slice
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return canonicalEmptyArray(b), nil
}

func decodeTags(dec *graphmodel.Decorator, raw []byte) error {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	for _, tag := range tags {
		if err := dec.EnableTag(tag); err != nil {
			return fmt.Errorf("decode tag %q: %w", tag, err)
		}
	}
	return nil
}

// variant-specific fields live outside Header (properties/metrics/tags)
// and are encoded into their own JSON column so a node can be fully
// reconstructed without guessing which struct it belongs to from its
// properties alone.

type projectFileData struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	Language  string `json:"language,omitempty"`
}

type javaClassData struct {
	FullyQualifiedName string   `json:"fully_qualified_name"`
	SimpleName         string   `json:"simple_name"`
	Package            string   `json:"package"`
	Origin             string   `json:"origin"`
	ParentClass        string   `json:"parent_class,omitempty"`
	Interfaces         []string `json:"interfaces,omitempty"`
}

type packageNodeData struct {
	Name string `json:"name"`
}

func encodeVariant(n graphmodel.Node) ([]byte, error) {
	var payload interface{}
	switch v := n.(type) {
	case *graphmodel.ProjectFile:
		payload = projectFileData{Path: v.Path, Extension: v.Extension, Size: v.Size, Language: v.Language}
	case *graphmodel.JavaClassNode:
		payload = javaClassData{
			FullyQualifiedName: v.FullyQualifiedName,
			SimpleName:         v.SimpleName,
			Package:            v.Package,
			Origin:             v.Origin,
			ParentClass:        v.ParentClass,
			Interfaces:         v.Interfaces,
		}
	case *graphmodel.PackageNode:
		payload = packageNodeData{Name: v.Name}
	default:
		return nil, fmt.Errorf("encode variant: unsupported node type %T", n)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode variant: %w", err)
	}
	return b, nil
}

func applyVariant(n graphmodel.Node, raw []byte) error {
	switch v := n.(type) {
	case *graphmodel.ProjectFile:
		var d projectFileData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decode variant (file): %w", err)
		}
		v.Path, v.Extension, v.Size, v.Language = d.Path, d.Extension, d.Size, d.Language
	case *graphmodel.JavaClassNode:
		var d javaClassData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decode variant (class): %w", err)
		}
		v.FullyQualifiedName = d.FullyQualifiedName
		v.SimpleName = d.SimpleName
		v.Package = d.Package
		v.Origin = d.Origin
		v.ParentClass = d.ParentClass
		v.Interfaces = d.Interfaces
	case *graphmodel.PackageNode:
		var d packageNodeData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decode variant (package): %w", err)
		}
		v.Name = d.Name
	default:
		return fmt.Errorf("decode variant: unsupported node type %T", n)
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
