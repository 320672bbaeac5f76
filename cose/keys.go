// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cose

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"

	"filippo.io/edwards25519"
)

const es256ScalarSize = 32

// Signer produces signatures over a Sig_structure
type Signer interface {
	Algorithm() Algorithm
	Sign(toBeSigned []byte) ([]byte, error)
}

type es256Signer struct {
	key *ecdsa.PrivateKey
}

// NewES256Signer returns a signer for ECDSA P-256 with SHA-256
func NewES256Signer(key *ecdsa.PrivateKey) (Signer, error) {
	if key == nil || key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: ES256 requires a P-256 key", ErrInvalidKey)
	}
	return &es256Signer{key: key}, nil
}

func (s *es256Signer) Algorithm() Algorithm {
	return AlgES256
}

// Sign returns the fixed width r||s form used by COSE
func (s *es256Signer) Sign(toBeSigned []byte) ([]byte, error) {
	digest := sha256.Sum256(toBeSigned)
	r, sVal, err := ecdsa.Sign(rand.Reader, s.key, digest[:])
	if err != nil {
		return nil, err
	}
	sig := make([]byte, 2*es256ScalarSize)
	r.FillBytes(sig[:es256ScalarSize])
	sVal.FillBytes(sig[es256ScalarSize:])
	return sig, nil
}

type eddsaSigner struct {
	key ed25519.PrivateKey
}

// NewEdDSASigner returns a signer for Ed25519
func NewEdDSASigner(key ed25519.PrivateKey) (Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf(
			"%w: Ed25519 private key must be %d bytes",
			ErrInvalidKey,
			ed25519.PrivateKeySize,
		)
	}
	return &eddsaSigner{key: key}, nil
}

func (s *eddsaSigner) Algorithm() Algorithm {
	return AlgEdDSA
}

func (s *eddsaSigner) Sign(toBeSigned []byte) ([]byte, error) {
	return ed25519.Sign(s.key, toBeSigned), nil
}

// Verifier checks signatures for a single public key
type Verifier struct {
	logger   *slog.Logger
	alg      Algorithm
	ecdsaKey *ecdsa.PublicKey
	edKey    ed25519.PublicKey
}

// NewES256Verifier returns a verifier for an ECDSA P-256 public key
func NewES256Verifier(pub *ecdsa.PublicKey, logger *slog.Logger) (*Verifier, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: ES256 requires a P-256 key", ErrInvalidKey)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		logger:   logger,
		alg:      AlgES256,
		ecdsaKey: pub,
	}, nil
}

// NewEdDSAVerifier returns a verifier for an Ed25519 public key. Keys that are
// not valid curve points or that have small order are rejected.
func NewEdDSAVerifier(pub ed25519.PublicKey, logger *slog.Logger) (*Verifier, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf(
			"%w: Ed25519 public key must be %d bytes",
			ErrInvalidKey,
			ed25519.PublicKeySize,
		)
	}
	point := &edwards25519.Point{}
	if _, err := point.SetBytes(pub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	isSmallOrder := (&edwards25519.Point{}).MultByCofactor(point).
		Equal(edwards25519.NewIdentityPoint()) ==
		1
	if isSmallOrder {
		return nil, fmt.Errorf("%w: public key is a small order point", ErrInvalidKey)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		logger: logger,
		alg:    AlgEdDSA,
		edKey:  pub,
	}, nil
}

// Algorithm returns the algorithm the verifier accepts
func (v *Verifier) Algorithm() Algorithm {
	return v.alg
}

func (v *Verifier) verify(alg Algorithm, kid []byte, toBeSigned []byte, sig []byte) error {
	if alg != v.alg {
		v.logger.Debug(
			"COSE algorithm mismatch",
			"expected",
			v.alg.String(),
			"got",
			alg.String(),
		)
		return fmt.Errorf("%w: message uses %s, key is %s", ErrUnsupportedAlgorithm, alg, v.alg)
	}
	var valid bool
	switch v.alg {
	case AlgES256:
		if len(sig) == 2*es256ScalarSize {
			digest := sha256.Sum256(toBeSigned)
			r := new(big.Int).SetBytes(sig[:es256ScalarSize])
			s := new(big.Int).SetBytes(sig[es256ScalarSize:])
			valid = ecdsa.Verify(v.ecdsaKey, digest[:], r, s)
		}
	case AlgEdDSA:
		valid = ed25519.Verify(v.edKey, toBeSigned, sig)
	}
	if !valid {
		v.logger.Debug(
			"COSE signature verification failed",
			"alg",
			v.alg.String(),
			"kid",
			hex.EncodeToString(kid),
			"signature_size",
			len(sig),
		)
		return ErrInvalidSignature
	}
	v.logger.Debug(
		"COSE signature verified",
		"alg",
		v.alg.String(),
		"sig_structure_size",
		len(toBeSigned),
	)
	return nil
}
