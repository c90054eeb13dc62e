package signing

import "testing"

func TestSignVerify_RoundTrip(t *testing.T) {
	kp := NewKeyPair()
	msg := map[string]any{"a": "b"}

	sig, err := kp.Sign(msg, ContextTx, "chain-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(kp.PubKeyHex(), sig, msg, ContextTx, "chain-1") {
		t.Fatal("expected signature to verify")
	}
}

func TestVerify_DomainSeparationByContext(t *testing.T) {
	kp := NewKeyPair()
	msg := map[string]any{"a": "b"}

	sig, err := kp.Sign(msg, ContextTx, "chain-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify(kp.PubKeyHex(), sig, msg, ContextVote, "chain-1") {
		t.Fatal("signature produced under TX context must not verify under VOTE context")
	}
}

func TestVerify_DomainSeparationByChainID(t *testing.T) {
	kp := NewKeyPair()
	msg := map[string]any{"a": "b"}

	sig, err := kp.Sign(msg, ContextTx, "chain-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify(kp.PubKeyHex(), sig, msg, ContextTx, "chain-2") {
		t.Fatal("signature produced under chain-1 must not verify under chain-2")
	}
}

func TestVerify_TamperedMessageFails(t *testing.T) {
	kp := NewKeyPair()
	msg := map[string]any{"amount": "100"}

	sig, err := kp.Sign(msg, ContextTx, "chain-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := map[string]any{"amount": "1000"}
	if Verify(kp.PubKeyHex(), sig, tampered, ContextTx, "chain-1") {
		t.Fatal("expected tampered message to fail verification")
	}
}

func TestVerify_MalformedInputsNeverPanic(t *testing.T) {
	if Verify("not-hex", "also-not-hex", "x", ContextTx, "chain-1") {
		t.Fatal("malformed pubkey/signature must verify false, not panic or succeed")
	}
	if Verify("", "", "x", ContextTx, "chain-1") {
		t.Fatal("empty pubkey/signature must verify false")
	}
}

func TestGenerateKeyPair_Deterministic(t *testing.T) {
	var seed [32]byte
	copy(seed[:], []byte("deterministic-seed-for-testing!"))

	a := GenerateKeyPair(seed)
	b := GenerateKeyPair(seed)

	if a.PubKeyHex() != b.PubKeyHex() {
		t.Fatalf("same seed produced different identities: %s != %s", a.PubKeyHex(), b.PubKeyHex())
	}
}
