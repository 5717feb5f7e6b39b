// Package certs provides utilities for certificate validation and handling.
package certs

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// ValidateCACertificate validates that the provided data contains a valid PEM-encoded certificate
func ValidateCACertificate(certData []byte) error {
	block, _ := pem.Decode(certData)
	if block == nil {
		return fmt.Errorf("no PEM data found in certificate file")
	}

	if block.Type != "CERTIFICATE" {
		return fmt.Errorf("PEM block is not a certificate (found: %s)", block.Type)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	// Some corporate proxies present non-CA certificates, so warn
	// instead of rejecting.
	if !cert.IsCA {
		logger.Warnf("Certificate is not marked as a CA certificate, but proceeding anyway")
	}

	return nil
}
