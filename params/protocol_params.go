// Package params holds the frozen wire-level limits of the Styx
// protocol. Changing any value here is a consensus-facing break: the
// on-chain program and every deployed client enforce the same numbers.
package params

const (
	// MaxInstructionBytes caps a single instruction payload, domain and
	// operation bytes included. Relays drop anything larger before it
	// reaches the program.
	MaxInstructionBytes = 1024

	// MaxEnvelopeBytes caps an encoded Styx envelope. Matches the relay
	// ingress bound; an envelope that encodes larger can never be
	// delivered.
	MaxEnvelopeBytes = 1024

	// MaxHops is the largest hop count accepted by the routed-message
	// handler.
	MaxHops = 5

	// MaxTreeDepth bounds airdrop Merkle proofs. Campaign trees built
	// under MaxBatchEntries stay at depth 12; claim payloads near this
	// bound still hit MaxInstructionBytes first.
	MaxTreeDepth = 32

	// MaxBatchEntries is the largest recipient batch a single campaign
	// build accepts. Callers split bigger drops into multiple campaigns
	// and may build the chunks concurrently.
	MaxBatchEntries = 4096

	// ViewTagSize is the number of shared-secret hash bytes published
	// as a stealth view tag. One byte filters 255/256 of non-matching
	// payments while leaking nothing an observer could link.
	ViewTagSize = 1

	// EnvelopeVersion is the only Styx envelope version in circulation.
	EnvelopeVersion = 1
)
