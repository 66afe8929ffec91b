package article

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrManifestNotList is returned when the manifest document is not a sequence.
var ErrManifestNotList = errors.New("manifest is not a list")

// ID is a manifest identifier. Numbers and strings are both accepted.
type ID string

func (id *ID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar, got %s", kindName(n.Kind))
	}
	if n.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ID(n.Value)
	return nil
}

// ManifestItem is one decoded manifest element. Err is set when the element
// could not be decoded into an Entry; the entry is still kept so that the
// builder can surface it as a failed record.
type ManifestItem struct {
	Entry Entry
	Err   error
}

// DecodeManifest decodes a JSON or YAML manifest. The document must be a list;
// elements that fail to decode are reported per item, not for the batch.
// A document starting with '[' or '{' is read as JSON, anything else as YAML.
func DecodeManifest(data []byte) ([]ManifestItem, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return decodeJSONManifest(trimmed)
	}
	return decodeYAMLManifest(data)
}

func decodeJSONManifest(data []byte) ([]ManifestItem, error) {
	if data[0] != '[' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("decode manifest: invalid JSON")
		}
		return nil, fmt.Errorf("%w: got %s", ErrManifestNotList, jsonKind(data))
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	items := make([]ManifestItem, 0, len(list))
	for i, raw := range list {
		var item ManifestItem
		entry, err := decodeJSONEntry(raw)
		if err != nil {
			item.Err = fmt.Errorf("manifest entry %d: %w", i, err)
		}
		item.Entry = entry
		items = append(items, item)
	}
	return items, nil
}

// decodeJSONEntry reads one manifest object. Like the YAML path, any scalar
// is accepted for a field: strings as-is, numbers and booleans by their
// literal text, null as empty. Fields that decoded are kept on error.
func decodeJSONEntry(raw json.RawMessage) (Entry, error) {
	if kind := jsonKind(raw); kind != "object" {
		return Entry{}, fmt.Errorf("expected an object, got %s", kind)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}, err
	}

	var e Entry
	var id string
	targets := []struct {
		key string
		dst *string
	}{
		{"id", &id},
		{"title", &e.Title},
		{"date", &e.Date},
		{"author", &e.Author},
		{"category", &e.Category},
		{"file", &e.File},
	}
	var firstErr error
	for _, t := range targets {
		v, err := jsonScalar(fields[t.key])
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s %w", t.key, err)
			}
			continue
		}
		*t.dst = v
	}
	e.ID = ID(id)
	return e, firstErr
}

func jsonScalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch kind := jsonKind(raw); kind {
	case "missing", "null":
		return "", nil
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case "object", "list":
		return "", fmt.Errorf("must be a scalar, got %s", kind)
	}
	return string(raw), nil
}

func jsonKind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "missing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "list"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	}
	return "number"
}

func decodeYAMLManifest(data []byte) ([]ManifestItem, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrManifestNotList
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: got %s", ErrManifestNotList, kindName(root.Kind))
	}

	items := make([]ManifestItem, 0, len(root.Content))
	for i, n := range root.Content {
		var item ManifestItem
		if n.Kind != yaml.MappingNode {
			item.Err = fmt.Errorf("manifest entry %d: expected an object, got %s", i, kindName(n.Kind))
		} else if err := n.Decode(&item.Entry); err != nil {
			item.Err = fmt.Errorf("manifest entry %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "nothing"
}
