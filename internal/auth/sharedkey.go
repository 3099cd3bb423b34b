// Package auth implements the SharedKey scheme used on the report ingestion
// path: the agent signs each upload body with a workspace-scoped HMAC-SHA256
// key, and the collector verifies the signature before decoding anything.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Header names carried on signed ingest requests.
const (
	DateHeader = "X-Ingest-Date"
	Scheme     = "SharedKey"
)

var (
	ErrMalformedAuthorization = errors.New("malformed authorization header")
	ErrSignatureMismatch      = errors.New("signature mismatch")
)

// Sign computes the base64 signature for one ingest request. The shared key
// is itself base64, matching how workspace keys are issued.
func Sign(sharedKey, method, path, date string, contentLength int) (string, error) {
	key, err := base64.StdEncoding.DecodeString(sharedKey)
	if err != nil {
		return "", fmt.Errorf("decode shared key: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s\n%d\napplication/json\n%s:%s\n%s",
		method, contentLength, strings.ToLower(DateHeader), date, path)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Authorization formats the Authorization header value for a workspace.
func Authorization(workspaceID, signature string) string {
	return fmt.Sprintf("%s %s:%s", Scheme, workspaceID, signature)
}

// ParseAuthorization splits an Authorization header value into workspace id
// and signature.
func ParseAuthorization(header string) (workspaceID, signature string, err error) {
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || scheme != Scheme {
		return "", "", ErrMalformedAuthorization
	}
	workspaceID, signature, ok = strings.Cut(rest, ":")
	if !ok || workspaceID == "" || signature == "" {
		return "", "", ErrMalformedAuthorization
	}
	return workspaceID, signature, nil
}

// Verify recomputes the signature for a request and compares it in constant
// time against the presented one.
func Verify(sharedKey, method, path, date, presented string, contentLength int) error {
	want, err := Sign(sharedKey, method, path, date, contentLength)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(presented)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}
