package solana

import "errors"

// ErrNotTokenMint is returned when an account exists but is not a
// recognized SPL token mint (wrong owner program or parsed type).
var ErrNotTokenMint = errors.New("account is not a recognized token mint")

// MintAccount is the parsed state of an SPL token mint.
// Resolved once at the ledger-facts boundary; nil authorities mean the
// corresponding permission has been revoked.
type MintAccount struct {
	MintAuthority   *string
	FreezeAuthority *string
	Supply          uint64
	Decimals        uint8
	Program         string // spl-token | spl-token-2022
}

// TokenBalance is one entry from getTokenLargestAccounts.
// Address is the token account, Amount the raw balance.
type TokenBalance struct {
	Address  string
	Amount   uint64
	Decimals uint8
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// Transaction is the subset of a confirmed transaction the investigator
// inspects: log messages and the static account keys.
type Transaction struct {
	Signature   string
	Slot        int64
	BlockTime   int64
	LogMessages []string
	AccountKeys []string
}
