package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// mockClient implements pahoClient for tests
type mockClient struct {
	published []struct {
		topic   string
		payload []byte
	}
	publishErr error
}

func (m *mockClient) IsConnected() bool   { return true }
func (m *mockClient) Connect() paho.Token { return &dummyToken{} }
func (m *mockClient) Disconnect(uint)     {}
func (m *mockClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	m.published = append(m.published, struct {
		topic   string
		payload []byte
	}{topic, payload.([]byte)})
	return &dummyToken{err: m.publishErr}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func TestPahoPublisherPublish(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)

	pub, err := NewPahoPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer func() { _ = pub.Close() }()

	payload := map[string]any{"soc": []float64{1000, 2000}}
	if err := pub.Publish(ScheduleTopic(0), payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mc.published) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mc.published))
	}
	if got := mc.published[0].topic; got != "evopt/schedule/0" {
		t.Errorf("unexpected topic: %s", got)
	}
	var decoded map[string]any
	if err := json.Unmarshal(mc.published[0].payload, &decoded); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
}

func TestPahoPublisherPublishError(t *testing.T) {
	mc := &mockClient{publishErr: fmt.Errorf("net fail")}
	withMockClient(t, mc)

	pub, err := NewPahoPublisher(Config{Enabled: true, Broker: "tcp://localhost:1883", TopicPrefix: "custom"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := pub.Publish(GridTopic, nil); err == nil {
		t.Fatalf("expected publish error")
	}
	if got := mc.published[0].topic; got != "custom/schedule/grid" {
		t.Errorf("unexpected topic: %s", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected broker error")
	}
	cfg.Broker = "tcp://localhost:1883"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.ClientID == "" || cfg.TopicPrefix != "evopt" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = dir + "/cert.pem"
	keyFile = dir + "/key.pem"
	caFile = dir + "/ca.pem"
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("load tls: %v", err)
	}
	if len(tlsCfg.Certificates) == 0 {
		t.Fatalf("no certs loaded")
	}
	if tlsCfg.RootCAs == nil {
		t.Fatalf("no root CAs")
	}
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	if err := m.Publish(ScheduleTopic(1), "x"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok := m.Messages["schedule/1"]; !ok {
		t.Fatalf("message not recorded")
	}
	m.Fail = true
	if err := m.Publish(GridTopic, nil); err == nil {
		t.Fatalf("expected failure")
	}
}
