package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wastalk/wastalk/errors"
)

// Parse decodes a JSON schema document and validates it.
func Parse(data []byte) (*PackageSchema, error) {
	var s PackageSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a schema file. JSON is the interchange format the extractor
// emits; .yaml/.yml files are accepted for hand-written fixtures and are
// converted to JSON before decoding so the same field names apply.
func Load(path string) (*PackageSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read schema %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse schema %s", path)
		}
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return s, nil
}

// yamlToJSON re-encodes a YAML document as JSON so that the json struct tags
// on the schema types apply uniformly.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML converts map[interface{}]interface{} nodes (possible with
// non-string YAML keys) into map[string]interface{} for json.Marshal.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalizeYAML(item)
		}
		return val
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
