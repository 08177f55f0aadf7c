package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1, "should have one certificate")
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return x509Cert
}

func TestFileManager_GetOrCreateCertificate(t *testing.T) {
	tests := []struct {
		setup          func(t *testing.T, certDir string)
		validateResult func(t *testing.T, certDir string, cert tls.Certificate)
		name           string
		hosts          []string
	}{
		{
			name:  "creates new certificate when none exists",
			setup: func(_ *testing.T, _ string) {},
			validateResult: func(t *testing.T, certDir string, cert tls.Certificate) {
				t.Helper()
				c := leaf(t, cert)
				assert.Equal(t, "penny", c.Subject.Organization[0])
				assert.Contains(t, c.DNSNames, "localhost")
				assert.True(t, c.NotAfter.After(time.Now().Add(364*24*time.Hour)))
				assert.NoError(t, c.VerifyHostname("127.0.0.1"))

				info, err := os.Stat(filepath.Join(certDir, keyFileName))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			},
		},
		{
			name:  "covers extra hosts",
			hosts: []string{"penny.lan", "10.0.0.5"},
			setup: func(_ *testing.T, _ string) {},
			validateResult: func(t *testing.T, _ string, cert tls.Certificate) {
				t.Helper()
				c := leaf(t, cert)
				assert.NoError(t, c.VerifyHostname("penny.lan"))
				assert.NoError(t, c.VerifyHostname("10.0.0.5"))
			},
		},
		{
			name: "reuses existing valid certificate",
			setup: func(t *testing.T, certDir string) {
				t.Helper()
				_, err := NewFileManager(certDir).GetOrCreateCertificate()
				require.NoError(t, err)
			},
			validateResult: func(t *testing.T, certDir string, cert tls.Certificate) {
				t.Helper()
				again, err := NewFileManager(certDir).GetOrCreateCertificate()
				require.NoError(t, err)
				assert.Equal(t, cert.Certificate[0], again.Certificate[0])
			},
		},
		{
			name: "regenerates invalid certificate",
			setup: func(t *testing.T, certDir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(certDir, 0700))
				require.NoError(t, os.WriteFile(filepath.Join(certDir, certFileName), []byte("garbage"), 0600))
				require.NoError(t, os.WriteFile(filepath.Join(certDir, keyFileName), []byte("garbage"), 0600))
			},
			validateResult: func(t *testing.T, _ string, cert tls.Certificate) {
				t.Helper()
				leaf(t, cert)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certDir := filepath.Join(t.TempDir(), "certs")
			tt.setup(t, certDir)

			cert, err := NewFileManager(certDir, tt.hosts...).GetOrCreateCertificate()
			require.NoError(t, err)
			tt.validateResult(t, certDir, cert)
		})
	}
}

func TestFileManager_RegeneratesWhenHostsChange(t *testing.T) {
	certDir := t.TempDir()
	first, err := NewFileManager(certDir).GetOrCreateCertificate()
	require.NoError(t, err)

	second, err := NewFileManager(certDir, "penny.lan").GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEqual(t, first.Certificate[0], second.Certificate[0])
	assert.NoError(t, leaf(t, second).VerifyHostname("penny.lan"))
}

func TestFileManager_RegeneratesExpired(t *testing.T) {
	certDir := t.TempDir()
	m := NewFileManager(certDir)
	m.now = func() time.Time { return time.Now().Add(-2 * DefaultValidity) }
	old, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	fresh, err := NewFileManager(certDir).GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEqual(t, old.Certificate[0], fresh.Certificate[0])
	assert.True(t, leaf(t, fresh).NotAfter.After(time.Now()))
}

func TestFileManager_CertificateExists(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  bool
	}{
		{name: "returns false when no files exist"},
		{name: "returns true when both files exist", files: []string{certFileName, keyFileName}, want: true},
		{name: "returns false when only certificate exists", files: []string{certFileName}},
		{name: "returns false when only key exists", files: []string{keyFileName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certDir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(certDir, f), []byte("x"), 0600))
			}

			got, err := NewFileManager(certDir).CertificateExists()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileManager_verifyCertificate(t *testing.T) {
	m := NewFileManager(t.TempDir())

	t.Run("valid certificate passes verification", func(t *testing.T) {
		cert, err := m.GetOrCreateCertificate()
		require.NoError(t, err)
		assert.NoError(t, m.verifyCertificate(cert))
	})

	t.Run("empty certificate fails", func(t *testing.T) {
		assert.ErrorIs(t, m.verifyCertificate(tls.Certificate{}), ErrNoCertificate)
	})
}
