package agentcore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/constructs-go/constructs/v10"
	"gopkg.in/yaml.v3"

	"github.com/plexusone/agentcore-confluence-gateway/config"
)

// StackConfigFromSettings maps resolved deployment settings onto a stack
// configuration.
func StackConfigFromSettings(s *config.Settings) StackConfig {
	var identity *InboundIdentity
	if s.InboundIdentity.Type != "" {
		id := s.InboundIdentity
		identity = &id
	}

	tags := make(map[string]string, len(s.Tags))
	for k, v := range s.Tags {
		tags[k] = v
	}

	return StackConfig{
		StackName:             s.StackName,
		Description:           s.GatewayDescription,
		Account:               s.AccountID,
		Region:                s.Region,
		GatewayName:           s.GatewayName,
		GatewayDescription:    s.GatewayDescription,
		InboundIdentity:       identity,
		CredentialProviderARN: s.CredentialProviderARN,
		PublishGatewayID:      s.PublishGatewayID,
		Tags:                  tags,
	}
}

// NewStackFromSettings creates a gateway stack named after s.StackName.
func NewStackFromSettings(scope constructs.Construct, s *config.Settings) *GatewayStack {
	cfg := StackConfigFromSettings(s)
	return NewGatewayStack(scope, cfg.StackName, cfg)
}

// LoadStackConfigFromFile loads a StackConfig from a JSON or YAML file. Files
// ending in .json are parsed as JSON, anything else as YAML.
func LoadStackConfigFromFile(path string) (*StackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stack config %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadStackConfigFromJSON(data)
	}
	return LoadStackConfigFromYAML(data)
}

// LoadStackConfigFromJSON parses a StackConfig from JSON data.
func LoadStackConfigFromJSON(data []byte) (*StackConfig, error) {
	var cfg StackConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing stack config JSON: %w", err)
	}
	return &cfg, nil
}

// LoadStackConfigFromYAML parses a StackConfig from YAML data.
func LoadStackConfigFromYAML(data []byte) (*StackConfig, error) {
	var cfg StackConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing stack config YAML: %w", err)
	}
	return &cfg, nil
}

// NewStackFromFile creates a GatewayStack from a JSON or YAML config file.
func NewStackFromFile(scope constructs.Construct, path string) (*GatewayStack, error) {
	cfg, err := LoadStackConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stack config %s: %w", path, err)
	}
	return NewGatewayStack(scope, cfg.StackName, *cfg), nil
}

// MustNewStackFromFile is like NewStackFromFile but panics on error.
func MustNewStackFromFile(scope constructs.Construct, path string) *GatewayStack {
	stack, err := NewStackFromFile(scope, path)
	if err != nil {
		panic(fmt.Sprintf("failed to create stack from %s: %v", path, err))
	}
	return stack
}
