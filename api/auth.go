// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/formgen/core"
)

var (
	// ErrSigningSecretRequired indicates the authenticator was created
	// without a signing secret.
	ErrSigningSecretRequired = errors.New("signing secret is required")

	// ErrInvalidToken indicates a bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")
)

const macSize = 16

// Authenticator issues and verifies bearer tokens of the form
// "subject:hexmac", where the MAC is a keyed BLAKE2b digest of the
// subject. Tokens are stateless: the owner identity is derived from the
// subject itself, so no token store is needed.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator from a signing secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrSigningSecretRequired
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// IssueToken creates a bearer token for the given subject.
func (a *Authenticator) IssueToken(subject string) (string, error) {
	if subject == "" || strings.Contains(subject, ":") {
		return "", ErrInvalidToken
	}
	mac, err := a.computeMAC(subject)
	if err != nil {
		return "", err
	}
	return subject + ":" + hex.EncodeToString(mac), nil
}

// Verify checks a token's MAC and returns the owner identity derived
// from its subject.
func (a *Authenticator) Verify(token string) (core.ID, error) {
	subject, macHex, found := strings.Cut(token, ":")
	if !found || subject == "" {
		return 0, ErrInvalidToken
	}
	claimed, err := hex.DecodeString(macHex)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expected, err := a.computeMAC(subject)
	if err != nil {
		return 0, err
	}
	if !hmac.Equal(claimed, expected) {
		return 0, ErrInvalidToken
	}
	return core.IDFromContent(subject), nil
}

func (a *Authenticator) computeMAC(subject string) ([]byte, error) {
	h, err := blake2b.New(macSize, a.secret)
	if err != nil {
		return nil, err
	}
	h.Write([]byte(subject))
	return h.Sum(nil), nil
}
