package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := (PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	}).validate()
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryAWSAndPubSub(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: queue
    type: SQS
    sqs:
      uri: " https://sqs.eu-central-1.amazonaws.com/1/flyers "
      region: eu-central-1
      access_key_id: AKIA
      secret_access_key: secret
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-central-1:1:flyers
      region: eu-central-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: p
      topic: flyers
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	queue, ok := reg.ByID("queue")
	if !ok || queue.Type != TypeSQS {
		t.Fatalf("queue publisher not normalized: %#v", queue)
	}
	if queue.SQS.QueueURL != "https://sqs.eu-central-1.amazonaws.com/1/flyers" || queue.SQS.AccessKeyID != "AKIA" {
		t.Fatalf("sqs config not decoded: %#v", queue.SQS)
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected 3 enabled publishers")
	}
}

func TestValidatePublisherConfigRejectsHalfCredentials(t *testing.T) {
	err := (PublisherConfig{
		ID:   "q",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:       "https://example.com/q",
			Region:         "eu-central-1",
			AWSCredentials: AWSCredentials{AccessKeyID: "AKIA"},
		},
	}).validate()
	if err == nil {
		t.Fatalf("expected validation error for missing secret key")
	}
}

func TestValidatePublisherConfigRejectsMissingTopic(t *testing.T) {
	for _, cfg := range []PublisherConfig{
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-central-1"}},
		{ID: "g", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
	} {
		if err := cfg.validate(); err == nil {
			t.Fatalf("expected validation error for %s", cfg.ID)
		}
	}
}

func TestLoadRegistryNormalizesHTTPDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers")
	raw := `{"publishers": [{"id": " hook ", "type": "HTTP", "http": {
		"url": " https://hooks.example.com/flyers ",
		"headers": {" Authorization ": " Bearer x ", "X-Empty": " "}
	}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("expected trimmed id lookup, got %#v", reg.All())
	}
	if hook.Type != TypeHTTP || hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != defaultHTTPTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v %#v", hook, hook.HTTP)
	}
	if hook.HTTP.URL != "https://hooks.example.com/flyers" {
		t.Fatalf("url not trimmed: %q", hook.HTTP.URL)
	}
	if len(hook.HTTP.Headers) != 1 || hook.HTTP.Headers["Authorization"] != "Bearer x" {
		t.Fatalf("headers not cleaned: %#v", hook.HTTP.Headers)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yml")
	raw := `
publishers:
  - id: hook
    type: http
    http: {url: https://a.example.com}
  - id: " hook"
    type: http
    http: {url: https://b.example.com}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestPublisherConfigValidateAllowsCustomTypes(t *testing.T) {
	if err := (PublisherConfig{ID: "x", Type: "kafka"}).validate(); err != nil {
		t.Fatalf("custom type should be left to its builder: %v", err)
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: hook\n    type: http\n    http: {url: https://a.example.com}\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	all[0].ID = "changed"
	if _, ok := reg.ByID("hook"); !ok || reg.All()[0].ID != "hook" {
		t.Fatalf("registry entries were aliased")
	}
}
