package release

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a refresh failure. A Kind is itself an error so callers can
// match with errors.Is(err, release.KindRemote).
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindTLSVerification
	KindNetwork
	KindRemote
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindTLSVerification:
		return "TlsVerificationError"
	case KindNetwork:
		return "NetworkError"
	case KindRemote:
		return "RemoteError"
	case KindParse:
		return "ParseError"
	default:
		return "UnknownError"
	}
}

func (k Kind) Error() string {
	return k.String()
}

// Retryable reports whether repeating the same refresh may succeed.
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindRemote
}

// Error is returned by every failed refresh.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind or another *Error of the same Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// Detail is the underlying cause, for operator-facing diagnostics.
func (e *Error) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// KindOf returns the Kind of a refresh error, or KindUnknown.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// Describe converts a refresh error into text suitable for the changelog pane.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var re *Error
	if !errors.As(err, &re) {
		return fmt.Sprintf("Failed to load the version list:\n%v", err)
	}

	var b strings.Builder
	switch re.Kind {
	case KindConfig:
		b.WriteString("Cannot find the CA certificate bundle.\n\n")
		if re.Detail() != "" {
			fmt.Fprintf(&b, "%s\n\n", re.Detail())
		}
		b.WriteString("Point trust_store in the config file (or --trust-store) at a valid PEM bundle,\n")
		b.WriteString("or set SSL_CERT_FILE, then refresh.")
	case KindTLSVerification:
		b.WriteString("TLS verification failed: the GitHub certificate could not be verified.\n\n")
		b.WriteString("Possible causes:\n")
		b.WriteString("- the local CA bundle is missing root certificates\n")
		b.WriteString("- a corporate or campus network inspects HTTPS with an untrusted CA\n\n")
		b.WriteString("Suggestions:\n")
		b.WriteString("1) check that the configured trust store exists and contains PEM certificates\n")
		b.WriteString("2) append your network's CA certificate to a combined PEM file and point trust_store at it\n")
		b.WriteString("3) temporary and unsafe: enable insecure mode and retry, only if you understand the risk\n")
	case KindNetwork:
		b.WriteString("Network error while loading the version list. Check your connection and refresh.\n")
	case KindRemote:
		fmt.Fprintf(&b, "GitHub answered with status %d. Refresh later; the service may be rate limiting or unavailable.\n", re.StatusCode)
	case KindParse:
		b.WriteString("The release list could not be understood. The GitHub API response shape may have changed.\n")
	default:
		b.WriteString("Failed to load the version list.\n")
	}

	if re.Kind != KindConfig && re.Detail() != "" {
		fmt.Fprintf(&b, "\nDetails:\n%s", re.Detail())
	}
	return b.String()
}
