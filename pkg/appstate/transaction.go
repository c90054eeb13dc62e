// Copyright 2025 Certen Protocol
//
// Transaction - a signed key/value write, scoped to a sender's own
// namespace.

package appstate

// Transaction is a signed request to set state[Key] = Value. Key must be
// prefixed with "<Sender>/" (ownership); Signature is over the canonical
// encoding of signable() under context "TX".
type Transaction struct {
	Sender    string `json:"sender"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Signature string `json:"signature"`
}

// signable returns the portion of the transaction that is signed/verified;
// the signature field itself is excluded.
func (tx Transaction) signable() any {
	return map[string]any{
		"sender": tx.Sender,
		"key":    tx.Key,
		"value":  tx.Value,
	}
}
