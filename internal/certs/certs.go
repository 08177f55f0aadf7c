// Package certs creates and reuses a self-signed certificate so the chat API
// can be served over HTTPS on a private network.
package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	certFileName = "penny.crt"
	keyFileName  = "penny.key"

	// DefaultValidity is how long a generated certificate is valid.
	DefaultValidity = 365 * 24 * time.Hour
)

// ErrNoCertificate is returned when a key pair holds no certificate.
var ErrNoCertificate = errors.New("no certificates found")

// FileManager keeps a certificate and key pair in a directory.
type FileManager struct {
	now      func() time.Time
	certDir  string
	certFile string
	keyFile  string
	hosts    []string
}

// NewFileManager creates a FileManager storing its files in certDir. The
// certificate covers localhost, the loopback addresses and any extra hosts,
// which may be DNS names or IP addresses.
func NewFileManager(certDir string, hosts ...string) *FileManager {
	return &FileManager{
		now:      time.Now,
		certDir:  certDir,
		certFile: filepath.Join(certDir, certFileName),
		keyFile:  filepath.Join(certDir, keyFileName),
		hosts:    append([]string{"localhost", "127.0.0.1", "::1"}, hosts...),
	}
}

// GetOrCreateCertificate loads the stored certificate, generating a new one
// when none exists or the stored one is unreadable, expired or does not
// cover every configured host.
func (m *FileManager) GetOrCreateCertificate() (tls.Certificate, error) {
	exists, err := m.CertificateExists()
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to check certificate existence: %w", err)
	}
	if exists {
		cert, loadErr := tls.LoadX509KeyPair(m.certFile, m.keyFile)
		if loadErr == nil && m.verifyCertificate(cert) == nil {
			return cert, nil
		}
		if err := m.removeCertificates(); err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to remove stale certificate: %w", err)
		}
	}

	return m.generateCertificate()
}

// CertificateExists reports whether both the certificate and key files exist.
func (m *FileManager) CertificateExists() (bool, error) {
	for _, path := range []string{m.certFile, m.keyFile} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to check %s: %w", filepath.Base(path), err)
		}
	}
	return true, nil
}

func (m *FileManager) generateCertificate() (tls.Certificate, error) {
	if err := os.MkdirAll(m.certDir, 0700); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate serial number: %w", err)
	}

	now := m.now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"penny"}, CommonName: "penny chat API"},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(DefaultValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, host := range m.hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, host)
		}
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to encode private key: %w", err)
	}

	if err := writePEM(m.certFile, "CERTIFICATE", certDER); err != nil {
		return tls.Certificate{}, err
	}
	if err := writePEM(m.keyFile, "EC PRIVATE KEY", keyDER); err != nil {
		return tls.Certificate{}, err
	}

	return tls.LoadX509KeyPair(m.certFile, m.keyFile)
}

func writePEM(path, blockType string, der []byte) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304 - path is built from the configured directory
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", filepath.Base(path), err)
	}
	if err := pem.Encode(out, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}

// verifyCertificate checks the validity window and host coverage.
func (m *FileManager) verifyCertificate(cert tls.Certificate) error {
	if len(cert.Certificate) == 0 {
		return ErrNoCertificate
	}

	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	now := m.now()
	if now.Before(x509Cert.NotBefore) {
		return fmt.Errorf("certificate not yet valid")
	}
	if now.After(x509Cert.NotAfter) {
		return fmt.Errorf("certificate has expired")
	}

	for _, host := range m.hosts {
		if err := x509Cert.VerifyHostname(host); err != nil {
			return fmt.Errorf("certificate not valid for %s: %w", host, err)
		}
	}
	return nil
}

func (m *FileManager) removeCertificates() error {
	for _, path := range []string{m.certFile, m.keyFile} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
