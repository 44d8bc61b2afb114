package casestudies

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const CurrentSchemaVersion = 2

type Attribute struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ShowInREST  bool   `json:"show_in_rest"`
}

// Schema declares the case study record type and the attributes it carries.
type Schema struct {
	Type          string      `json:"type"`
	Version       int         `json:"version"`
	PermalinkBase string      `json:"permalink_base"`
	RESTBase      string      `json:"rest_base"`
	Supports      []string    `json:"supports"`
	Attributes    []Attribute `json:"attributes"`
}

func NewSchema(permalinkBase string) Schema {
	attrs := []string{"client", "results", "technologies", "date_completed", "problem", "solution"}
	out := Schema{
		Type:          RecordType,
		Version:       CurrentSchemaVersion,
		PermalinkBase: permalinkBase,
		RESTBase:      "case-studies",
		Supports:      []string{"title", "editor", "thumbnail", "excerpt", "custom-fields"},
	}
	for _, key := range attrs {
		out.Attributes = append(out.Attributes, Attribute{
			Key:         key,
			Type:        "string",
			Description: describeAttribute(key),
			ShowInREST:  true,
		})
	}
	return out
}

func (s Schema) Attribute(key string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

func describeAttribute(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// UpgradeDocument brings a raw stored document up to CurrentSchemaVersion.
// It reports whether the document changed. Version 1 documents (legacy
// imports) kept technologies as a list and had no schema_version field.
func UpgradeDocument(doc map[string]interface{}) (bool, error) {
	version := 1
	if v := extractID(doc["schema_version"]); v != nil {
		version = int(*v)
	}
	if version > CurrentSchemaVersion {
		return false, fmt.Errorf("schema version %d is newer than supported %d", version, CurrentSchemaVersion)
	}
	if version == CurrentSchemaVersion {
		return false, nil
	}

	meta := map[string]interface{}{}
	switch m := doc["meta"].(type) {
	case bson.M:
		meta = m
	case map[string]interface{}:
		meta = m
	}
	switch techs := meta["technologies"].(type) {
	case string:
	case bson.A:
		meta["technologies"] = JoinTechnologies(extractStrings([]interface{}(techs)))
	case nil:
		meta["technologies"] = ""
	default:
		meta["technologies"] = JoinTechnologies(extractStrings(techs))
	}
	for _, key := range []string{"client", "problem", "solution", "results", "date_completed"} {
		if _, ok := meta[key].(string); !ok {
			meta[key] = ""
		}
	}
	doc["meta"] = meta
	if _, ok := doc["type"]; !ok {
		doc["type"] = RecordType
	}
	doc["schema_version"] = CurrentSchemaVersion
	return true, nil
}
