// Package config loads and validates the plugin's YAML configuration
// document into typed Go structs, leaving each event's detector-specific
// keys as a generic map for the owning detector factory to interpret --
// the same "generic configuration passthrough" shape the original plugin
// gets for free from eckit::LocalConfiguration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecmwf-labs/extreme-events/ee"
)

// ParamRef names one scalar or field the host must offer for an event to
// be loaded, and whether it is an Atlas-style gridded field ("atlas_field")
// or a plain scalar.
type ParamRef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// EventConfig is one entry of the "events" list: a registry key, whether
// it is enabled, its required inputs, and the raw detector-specific keys
// (e.g. "instances", "wind_speed_cutout") passed through unparsed.
type EventConfig struct {
	Name           string
	Enabled        bool
	RequiredParams []ParamRef
	Raw            map[string]interface{}
}

// FieldNames returns the names of this event's required_params entries
// whose type is "atlas_field".
func (e EventConfig) FieldNames() []string {
	var out []string
	for _, p := range e.RequiredParams {
		if p.Type == "atlas_field" {
			out = append(out, p.Name)
		}
	}
	return out
}

// ScalarNames returns the names of this event's required_params entries
// whose type is anything other than "atlas_field".
func (e EventConfig) ScalarNames() []string {
	var out []string
	for _, p := range e.RequiredParams {
		if p.Type != "atlas_field" {
			out = append(out, p.Name)
		}
	}
	return out
}

// PluginConfig is the root of the plugin's YAML configuration document.
type PluginConfig struct {
	HealpixRes         int
	EnableNotification bool
	AvisoURL           string
	NotifyEndpoint     string
	Events             []EventConfig
}

// Load reads path, parses it as YAML, and validates it into a PluginConfig.
func Load(path string) (*PluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates and decodes YAML bytes into a PluginConfig, without
// touching the filesystem. Exported separately from Load so tests and
// callers that already have the document in memory (e.g. fetched over the
// network) don't need a temp file.
func Parse(data []byte) (*PluginConfig, error) {
	var doc struct {
		HealpixRes         int                      `yaml:"healpix_res"`
		EnableNotification bool                     `yaml:"enable_notification"`
		AvisoURL           string                   `yaml:"aviso_url"`
		NotifyEndpoint     string                   `yaml:"notify_endpoint"`
		Events             []map[string]interface{} `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	cfg := &PluginConfig{
		HealpixRes:         doc.HealpixRes,
		EnableNotification: doc.EnableNotification,
		AvisoURL:           doc.AvisoURL,
		NotifyEndpoint:     doc.NotifyEndpoint,
	}
	if cfg.HealpixRes == 0 {
		cfg.HealpixRes = 2
	}

	for _, raw := range doc.Events {
		ec, err := parseEvent(raw)
		if err != nil {
			return nil, err
		}
		cfg.Events = append(cfg.Events, ec)
	}
	return cfg, nil
}

func parseEvent(raw map[string]interface{}) (EventConfig, error) {
	name, _ := raw["name"].(string)
	if name == "" {
		return EventConfig{}, &ee.BadParameter{Name: "events[].name", Msg: "every event must specify a registry name"}
	}

	enabled := true
	if v, ok := raw["enabled"]; ok {
		b, ok := v.(bool)
		if !ok {
			return EventConfig{}, &ee.BadValue{Field: "enabled", Value: v, Msg: "must be a boolean"}
		}
		enabled = b
	}

	var refs []ParamRef
	if rp, ok := raw["required_params"].([]interface{}); ok {
		for _, item := range rp {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			n, _ := m["name"].(string)
			t, _ := m["type"].(string)
			refs = append(refs, ParamRef{Name: n, Type: t})
		}
	}

	return EventConfig{
		Name:           name,
		Enabled:        enabled,
		RequiredParams: refs,
		Raw:            raw,
	}, nil
}
