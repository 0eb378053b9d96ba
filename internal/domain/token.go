package domain

// OnChainFacts holds the mint account state of the subject token.
// Fetched once per investigation; immutable afterward.
type OnChainFacts struct {
	Mint            string
	MintAuthority   *string // nil = revoked
	FreezeAuthority *string // nil = revoked
	Supply          uint64  // raw units
	Decimals        uint8
	TokenProgram    string // spl-token | spl-token-2022
}

// SupplyUI returns the supply adjusted for decimals.
func (f *OnChainFacts) SupplyUI() float64 {
	supply := float64(f.Supply)
	for i := uint8(0); i < f.Decimals; i++ {
		supply /= 10
	}
	return supply
}

// AuthorityAddress returns the creator-proxy identity used by the
// known-offender fast path: mint authority if set, else freeze authority.
func (f *OnChainFacts) AuthorityAddress() string {
	if f.MintAuthority != nil {
		return *f.MintAuthority
	}
	if f.FreezeAuthority != nil {
		return *f.FreezeAuthority
	}
	return ""
}

// Holder is a single top-holder entry. Address is the token account,
// Owner its owning wallet, Percent the share of total supply.
type Holder struct {
	Address string
	Owner   string
	Balance uint64
	Percent float64
}

// HolderDistribution is the ordered (largest-first) set of top holders
// with likely liquidity-pool owners excluded. FilteredOut counts the
// entries removed by the exclusion predicate; when exclusion would have
// emptied the set, Holders carries the unfiltered entries instead and
// Unfiltered is true.
type HolderDistribution struct {
	Holders     []Holder
	FilteredOut int
	Unfiltered  bool
}

// Top10Percent returns the share of supply held by the ten largest
// retained holders.
func (d *HolderDistribution) Top10Percent() float64 {
	var total float64
	for i, h := range d.Holders {
		if i >= 10 {
			break
		}
		total += h.Percent
	}
	return total
}

// CreatorProfile is derived per investigation from on-chain facts plus
// the holder distribution; never persisted standalone.
type CreatorProfile struct {
	Address string
	Percent float64
	Dumped  bool // holding < 1% of supply
	Whale   bool // holding > 20% of supply
}

// CreatorHistory summarizes the creator's prior token launches found in
// a bounded scan of its recent activity.
type CreatorHistory struct {
	Creator        string
	PriorTokens    int
	Mints          []string
	SerialLauncher bool // >= 2 prior mints
}
