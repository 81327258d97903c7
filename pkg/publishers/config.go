package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Supported publisher types.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"
)

const defaultHTTPTimeoutSeconds = 5

// PublisherConfig is one entry of the publishers file. Exactly the block matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

// AWSCredentials are optional static keys; empty means the default AWS credential chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig targets one queue.
type SQSPublisherConfig struct {
	QueueURL       string `json:"uri" yaml:"uri"`
	Region         string `json:"region" yaml:"region"`
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	AWSCredentials `json:",inline" yaml:",inline"`
}

// SNSPublisherConfig targets one topic.
type SNSPublisherConfig struct {
	TopicARN       string `json:"topic_arn" yaml:"topic_arn"`
	Region         string `json:"region" yaml:"region"`
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	AWSCredentials `json:",inline" yaml:",inline"`
}

// PubSubPublisherConfig targets one Google Cloud Pub/Sub topic.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPPublisherConfig is a webhook endpoint. Method defaults to POST.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// EnabledValue returns the enabled flag, true when unset.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// sinkSettings is implemented by every type-specific block.
type sinkSettings interface {
	normalize()
	validate() error
}

// settings returns the block selected by Type. ok is false for types without a known block.
func (cfg PublisherConfig) settings() (s sinkSettings, ok bool) {
	switch cfg.Type {
	case TypeSQS:
		return cfg.SQS, true
	case TypeSNS:
		return cfg.SNS, true
	case TypePubSub:
		return cfg.PubSub, true
	case TypeHTTP:
		return cfg.HTTP, true
	}
	return nil, false
}

// normalized returns a trimmed copy. Type blocks are copied before they are normalized.
func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if cfg.SQS != nil {
		c := *cfg.SQS
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		cfg.HTTP = &c
	}

	if s, ok := cfg.settings(); ok && !isNilSettings(s) {
		s.normalize()
	}
	return cfg
}

// validate checks the fields the selected type needs.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("publisher %q: type is required", cfg.ID)
	}
	s, ok := cfg.settings()
	if !ok {
		// custom types registered at runtime validate in their builder
		return nil
	}
	if isNilSettings(s) {
		return fmt.Errorf("publisher %q: %s block is required", cfg.ID, cfg.Type)
	}
	if err := s.validate(); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

// isNilSettings catches typed nil pointers stored in the interface.
func isNilSettings(s sinkSettings) bool {
	switch v := s.(type) {
	case *SQSPublisherConfig:
		return v == nil
	case *SNSPublisherConfig:
		return v == nil
	case *PubSubPublisherConfig:
		return v == nil
	case *HTTPPublisherConfig:
		return v == nil
	}
	return s == nil
}

func (c *SQSPublisherConfig) normalize() {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AWSCredentials.normalize()
}

func (c *SQSPublisherConfig) validate() error {
	if err := required(field{"sqs.uri", c.QueueURL}, field{"sqs.region", c.Region}); err != nil {
		return err
	}
	return c.AWSCredentials.validate()
}

func (c *SNSPublisherConfig) normalize() {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AWSCredentials.normalize()
}

func (c *SNSPublisherConfig) validate() error {
	if err := required(field{"sns.topic_arn", c.TopicARN}, field{"sns.region", c.Region}); err != nil {
		return err
	}
	return c.AWSCredentials.validate()
}

func (c *PubSubPublisherConfig) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
}

func (c *PubSubPublisherConfig) validate() error {
	return required(field{"pubsub.project_id", c.ProjectID}, field{"pubsub.topic", c.Topic})
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodPost
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
}

func (c *HTTPPublisherConfig) validate() error {
	return required(field{"http.url", c.URL})
}

func (c *AWSCredentials) normalize() {
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	c.SessionToken = strings.TrimSpace(c.SessionToken)
}

func (c *AWSCredentials) validate() error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return errors.New("access_key_id and secret_access_key must be set together")
	}
	return nil
}

type field struct {
	name, value string
}

// required reports the first empty field.
func required(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	return nil
}
