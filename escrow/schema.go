package escrow

import "github.com/styx-network/gstyx/wire"

// Domain is the escrow instruction family discriminator.
const Domain = wire.DomainEscrow

// Escrow operation tags. The escrow handler dispatches on the full
// payload, domain byte included, so offsets count from byte 0.
const (
	OpInitCampaign uint8 = 1
	OpDeposit      uint8 = 2
	OpClaim        uint8 = 3
)

var (
	initCampaignSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpInitCampaign), Name: "initCampaign",
		Fields: []wire.Field{
			{Name: "campaignId", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "manifestHash", Offset: 34, Size: 32, Kind: wire.KindBytes},
			{Name: "root", Offset: 66, Size: 32, Kind: wire.KindBytes},
			{Name: "treeSalt", Offset: 98, Size: 32, Kind: wire.KindBytes},
			{Name: "expiry", Offset: 130, Kind: wire.KindU64},
		},
	})

	depositSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpDeposit), Name: "deposit",
		Fields: []wire.Field{
			{Name: "campaignId", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "amount", Offset: 34, Kind: wire.KindU64},
		},
	})

	claimSchema = wire.Register(wire.Schema{
		Domain: Domain, Op: wire.Op(OpClaim), Name: "claim",
		Fields: []wire.Field{
			{Name: "campaignId", Offset: 2, Size: 32, Kind: wire.KindBytes},
			{Name: "recipient", Offset: 34, Size: 32, Kind: wire.KindBytes},
			{Name: "amount", Offset: 66, Kind: wire.KindU64},
			{Name: "index", Offset: 74, Kind: wire.KindU32},
			{Name: "proof", Offset: 78, Size: 32, Kind: wire.KindProof},
		},
	})
)
