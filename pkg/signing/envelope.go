// Copyright 2025 Certen Protocol
//
// Signing envelope - domain-separated Ed25519 signatures.
// Every signature produced here is bound to a (context, chain_id) pair so
// that a signature valid for one message kind can never be replayed as
// valid for another.

package signing

import (
	"encoding/hex"

	cmted25519 "github.com/cometbft/cometbft/crypto/ed25519"

	"github.com/certen/bftkv/pkg/canonical"
)

// Context tags the intended use of a signed payload. Mixing this into the
// payload is what prevents cross-message-type replay.
type Context string

const (
	ContextTx     Context = "TX"
	ContextHeader Context = "HEADER"
	ContextVote   Context = "VOTE"
)

// KeyPair wraps an Ed25519 key pair. The public key's lowercase hex encoding
// is the validator/account identity used throughout the module.
type KeyPair struct {
	priv cmted25519.PrivKey
	pub  cmted25519.PubKey
}

// GenerateKeyPair derives a deterministic Ed25519 key pair from a 32-byte
// seed, so that identical seeds always yield identical identities across
// runs (required by the determinism contract, §5/§8 S6).
func GenerateKeyPair(seed [32]byte) KeyPair {
	priv := cmted25519.GenPrivKeyFromSecret(seed[:])
	pub, _ := priv.PubKey().(cmted25519.PubKey)
	return KeyPair{priv: priv, pub: pub}
}

// NewKeyPair generates a fresh, non-deterministic key pair.
func NewKeyPair() KeyPair {
	priv := cmted25519.GenPrivKey()
	pub, _ := priv.PubKey().(cmted25519.PubKey)
	return KeyPair{priv: priv, pub: pub}
}

// PubKeyHex returns the 64-character lowercase hex public key identity.
func (k KeyPair) PubKeyHex() string {
	return hex.EncodeToString(k.pub)
}

// Sign signs message (any structured value) for the given context and chain.
func (k KeyPair) Sign(message any, ctx Context, chainID string) (string, error) {
	payload, err := buildPayload(message, ctx, chainID)
	if err != nil {
		return "", err
	}
	sig, err := k.priv.Sign(payload)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks a hex signature against pubkeyHex for message under
// (ctx, chainID). It never returns an error — any decoding or verification
// failure is reported as false, per the envelope's contract.
func Verify(pubkeyHex, signatureHex string, message any, ctx Context, chainID string) bool {
	pubBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil || len(pubBytes) != cmted25519.PubKeySize {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	payload, err := buildPayload(message, ctx, chainID)
	if err != nil {
		return false
	}
	pub := cmted25519.PubKey(pubBytes)
	return pub.VerifySignature(payload, sig)
}

// buildPayload constructs utf8(context + ":" + chain_id + ":") + canonical(message).
func buildPayload(message any, ctx Context, chainID string) ([]byte, error) {
	body, err := canonical.Marshal(message)
	if err != nil {
		return nil, err
	}
	prefix := string(ctx) + ":" + chainID + ":"
	payload := make([]byte, 0, len(prefix)+len(body))
	payload = append(payload, []byte(prefix)...)
	payload = append(payload, body...)
	return payload, nil
}
