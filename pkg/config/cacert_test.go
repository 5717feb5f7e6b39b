package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestCA writes a self-signed CA certificate in PEM form.
func writeTestCA(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "mcpdock test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	certPath := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certPath, pemBytes, 0600))
	return certPath
}

func TestSetCACert(t *testing.T) {
	t.Parallel()

	certPath := writeTestCA(t)
	provider := NewPathProvider(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, SetCACert(provider, certPath))

	gotPath, exists, accessible := GetCACert(provider)
	assert.Equal(t, certPath, gotPath)
	assert.True(t, exists)
	assert.True(t, accessible)
}

func TestSetCACertRejectsGarbage(t *testing.T) {
	t.Parallel()

	certPath := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(certPath, []byte("not a certificate"), 0600))
	provider := NewPathProvider(filepath.Join(t.TempDir(), "config.yaml"))

	err := SetCACert(provider, certPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CA certificate")
}

func TestSetCACertRejectsWrongPEMBlock(t *testing.T) {
	t.Parallel()

	certPath := filepath.Join(t.TempDir(), "key.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{1, 2, 3}})
	require.NoError(t, os.WriteFile(certPath, block, 0600))
	provider := NewPathProvider(filepath.Join(t.TempDir(), "config.yaml"))

	err := SetCACert(provider, certPath)
	assert.Error(t, err)
}

func TestSetCACertRejectsMissingFile(t *testing.T) {
	t.Parallel()

	provider := NewPathProvider(filepath.Join(t.TempDir(), "config.yaml"))
	err := SetCACert(provider, filepath.Join(t.TempDir(), "absent.pem"))
	assert.Error(t, err)
}

func TestGetCACertReportsDeletedFile(t *testing.T) {
	t.Parallel()

	certPath := writeTestCA(t)
	provider := NewPathProvider(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, SetCACert(provider, certPath))

	require.NoError(t, os.Remove(certPath))

	gotPath, exists, accessible := GetCACert(provider)
	assert.Equal(t, certPath, gotPath)
	assert.True(t, exists)
	assert.False(t, accessible)

	require.NoError(t, UnsetCACert(provider))
	_, exists, _ = GetCACert(provider)
	assert.False(t, exists)
}
