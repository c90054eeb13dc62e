package appstate

import (
	"testing"

	"github.com/certen/bftkv/pkg/signing"
)

const chainID = "test-chain"

func signedTx(t *testing.T, kp signing.KeyPair, key, value string) Transaction {
	t.Helper()
	tx := Transaction{Sender: kp.PubKeyHex(), Key: key, Value: value}
	sig, err := kp.Sign(tx.signable(), signing.ContextTx, chainID)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tx.Signature = sig
	return tx
}

func TestApplyTx_Valid(t *testing.T) {
	kp := signing.NewKeyPair()
	s := New()
	tx := signedTx(t, kp, kp.PubKeyHex()+"/x", "100")

	if !s.ApplyTx(tx, chainID) {
		t.Fatal("expected valid transaction to apply")
	}
	v, ok := s.Get(tx.Key)
	if !ok || v != "100" {
		t.Fatalf("Get = %q, %v; want 100, true", v, ok)
	}
}

func TestApplyTx_RejectsOwnershipMismatch(t *testing.T) {
	kp := signing.NewKeyPair()
	s := New()
	tx := signedTx(t, kp, "someone-else/x", "100")

	if s.ApplyTx(tx, chainID) {
		t.Fatal("expected ownership mismatch to be rejected")
	}
}

func TestApplyTx_RejectsWrongContextSignature(t *testing.T) {
	kp := signing.NewKeyPair()
	s := New()
	tx := Transaction{Sender: kp.PubKeyHex(), Key: kp.PubKeyHex() + "/x", Value: "100"}
	sig, err := kp.Sign(tx.signable(), signing.ContextVote, chainID) // wrong context
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tx.Signature = sig

	if s.ApplyTx(tx, chainID) {
		t.Fatal("expected a VOTE-context signature to be rejected for a TX")
	}
}

func TestApplyTx_RejectsTamperedValue(t *testing.T) {
	kp := signing.NewKeyPair()
	s := New()
	tx := signedTx(t, kp, kp.PubKeyHex()+"/x", "100")
	tx.Value = "1000" // tampered after signing

	if s.ApplyTx(tx, chainID) {
		t.Fatal("expected tampered value to be rejected")
	}
}

func TestCommitment_OrderIndependent(t *testing.T) {
	kp := signing.NewKeyPair()

	s1 := New()
	s1.ApplyTx(signedTx(t, kp, kp.PubKeyHex()+"/a", "1"), chainID)
	s1.ApplyTx(signedTx(t, kp, kp.PubKeyHex()+"/b", "2"), chainID)

	s2 := New()
	s2.ApplyTx(signedTx(t, kp, kp.PubKeyHex()+"/b", "2"), chainID)
	s2.ApplyTx(signedTx(t, kp, kp.PubKeyHex()+"/a", "1"), chainID)

	c1, err := s1.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	c2, err := s2.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("commitment depends on insertion order: %s != %s", c1, c2)
	}
}

func TestClone_DoesNotMutateLiveState(t *testing.T) {
	kp := signing.NewKeyPair()
	s := New()
	clone := s.Clone()

	tx := signedTx(t, kp, kp.PubKeyHex()+"/x", "1")
	clone.ApplyTx(tx, chainID)

	if _, ok := s.Get(tx.Key); ok {
		t.Fatal("mutating a clone must not affect the live state")
	}
}
