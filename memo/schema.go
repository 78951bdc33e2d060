package memo

import "github.com/styx-network/gstyx/wire"

// Domain is the memo instruction family discriminator.
const Domain = wire.DomainMemo

// The deployed memo handler dispatches on its first byte after the
// router strips the domain, so every schema here is Stripped: offsets
// count from the operation tag.
var (
	privateMessageSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpPrivateMessage), Name: "privateMessage",
		Stripped:  true,
		AllowTail: true, // optional compliance tail, parsed by the typed decoder
		Fields: []wire.Field{
			{Name: "flags", Offset: 1, Kind: wire.KindU8},
			{Name: "encRecipient", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "sender", Offset: 34, Size: 32, Kind: wire.KindBytes},
			{Name: "payload", Offset: 66, Kind: wire.KindVar16},
		},
	})

	routedMessageSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpRoutedMessage), Name: "routedMessage",
		Stripped: true,
		Fields: []wire.Field{
			{Name: "flags", Offset: 1, Kind: wire.KindU8},
			{Name: "hopCount", Offset: 2, Kind: wire.KindU8},
			{Name: "sessionId", Offset: 3, Size: 32, Kind: wire.KindBytes},
			{Name: "hopIndex", Offset: 35, Kind: wire.KindU8},
			{Name: "nextHop", Offset: 36, Size: 32, Kind: wire.KindBytes},
			{Name: "payload", Offset: 68, Kind: wire.KindVar16},
		},
	})

	privateTransferSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpPrivateTransfer), Name: "privateTransfer",
		Stripped: true,
		Fields: []wire.Field{
			{Name: "flags", Offset: 1, Kind: wire.KindU8},
			{Name: "encRecipient", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "sender", Offset: 34, Size: 32, Kind: wire.KindBytes},
			{Name: "encAmount", Offset: 66, Kind: wire.KindU64},
			{Name: "amountNonce", Offset: 74, Size: AmountNonceSize, Kind: wire.KindBytes},
			{Name: "memo", Offset: 82, Kind: wire.KindVar16},
		},
	})

	ratchetMessageSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpRatchetMessage), Name: "ratchetMessage",
		Stripped: true,
		Fields: []wire.Field{
			{Name: "flags", Offset: 1, Kind: wire.KindU8},
			{Name: "sessionId", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "counter", Offset: 34, Kind: wire.KindU64},
			{Name: "ephemeralPub", Offset: 42, Size: 32, Kind: wire.KindBytes},
			{Name: "ciphertext", Offset: 74, Kind: wire.KindVar16},
		},
	})

	complianceRevealSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpComplianceReveal), Name: "complianceReveal",
		Stripped: true,
		Fields: []wire.Field{
			{Name: "flags", Offset: 1, Kind: wire.KindU8},
			{Name: "messageId", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "auditor", Offset: 34, Size: 32, Kind: wire.KindBytes},
			{Name: "disclosureKey", Offset: 66, Size: 32, Kind: wire.KindBytes},
			{Name: "revealType", Offset: 98, Kind: wire.KindU8},
		},
	})
)
