package release

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// LoadTrustStore reads a PEM CA bundle into a certificate pool.
// Any failure is a KindConfig error.
func LoadTrustStore(path string) (*x509.CertPool, error) {
	if path == "" {
		return nil, newError(KindConfig, "missing trust store",
			goerr.New("no CA bundle path configured"))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, newError(KindConfig, "missing trust store",
			goerr.Wrap(err, "CA bundle not found", goerr.V("path", path)))
	}
	if info.IsDir() {
		return nil, newError(KindConfig, "missing trust store",
			goerr.New("CA bundle path is a directory", goerr.V("path", path)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindConfig, "missing trust store",
			goerr.Wrap(err, "failed to read CA bundle", goerr.V("path", path)))
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, newError(KindConfig, "missing trust store",
			goerr.New("CA bundle contains no PEM certificates", goerr.V("path", path)))
	}
	return pool, nil
}

// tlsConfig builds the client TLS configuration for one refresh.
func tlsConfig(pool *x509.CertPool, insecure bool) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            pool,
		InsecureSkipVerify: insecure, //nolint:gosec // explicit user toggle
	}
}
