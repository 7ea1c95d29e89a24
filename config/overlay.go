package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay holds local overrides for values that do not live in the
// parameter store. JSON files are accepted since JSON is valid YAML.
//
// Example:
//
//	env: staging
//	gatewayName: confluence-gateway-staging
//	inboundIdentity:
//	  type: Cognito
//	  userPoolId: us-east-1_AbCdEf
//	  clientIds: [abc123]
//	tags:
//	  Team: knowledge
type Overlay struct {
	Env                string            `yaml:"env,omitempty"`
	GatewayName        string            `yaml:"gatewayName,omitempty"`
	GatewayDescription string            `yaml:"gatewayDescription,omitempty"`
	InboundIdentity    *InboundIdentity  `yaml:"inboundIdentity,omitempty"`
	PublishGatewayID   *bool             `yaml:"publishGatewayId,omitempty"`
	Tags               map[string]string `yaml:"tags,omitempty"`
}

// ParseOverlay parses overlay data.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing overlay: %w", err)
	}
	return &o, nil
}

// LoadOverlayFile reads and parses the overlay at path.
func LoadOverlayFile(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overlay %s: %w", path, err)
	}
	return ParseOverlay(data)
}

func (o *Overlay) apply(s *Settings) {
	if o.GatewayName != "" {
		s.GatewayName = o.GatewayName
	}
	if o.GatewayDescription != "" {
		s.GatewayDescription = o.GatewayDescription
	}
	if o.InboundIdentity != nil {
		s.InboundIdentity = *o.InboundIdentity
	}
	if o.PublishGatewayID != nil {
		s.PublishGatewayID = *o.PublishGatewayID
	}
	for k, v := range o.Tags {
		s.Tags[k] = v
	}
}
