package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/cmd/utils"
	"github.com/styx-network/gstyx/envelope"
	"github.com/styx-network/gstyx/escrow"
	"github.com/styx-network/gstyx/wire"
)

type inspectField struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type claimCodeDetail struct {
	Leaf       string   `json:"leaf"`
	Index      uint32   `json:"index"`
	Siblings   []string `json:"siblings"`
	Directions []int    `json:"directions"`
}

type outputInspect struct {
	Format string         `json:"format"`
	Domain string         `json:"domain,omitempty"`
	Op     string         `json:"op,omitempty"`
	Detail interface{}    `json:"detail,omitempty"`
	Fields []inspectField `json:"fields,omitempty"`
	Tail   string         `json:"tail,omitempty"`
}

var commandInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "decode a payload, envelope memo or claim code",
	ArgsUsage: "<hex|styx1:...|wdclaim1:...>",
	Description: `
Decode any styx artifact and print its structure.

The argument may be a hex instruction payload, a hex or memo-string
envelope, or an airdrop claim code. The format is detected from the
prefix.`,
	Flags: []cli.Flag{
		jsonFlag,
	},
	Action: func(ctx *cli.Context) error {
		input := strings.TrimSpace(ctx.Args().First())
		if input == "" {
			utils.Fatalf("No payload given to inspect")
		}
		out, err := inspectPayload(input)
		if err != nil {
			utils.Fatalf("Failed to decode payload: %v", err)
		}
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(out)
		} else {
			printInspect(out)
		}
		return nil
	},
}

// inspectPayload classifies and decodes one artifact. Memo strings and
// claim codes are recognized by prefix, raw bytes by the envelope
// magic, and everything else is treated as an instruction payload.
func inspectPayload(input string) (*outputInspect, error) {
	if strings.HasPrefix(input, envelope.MemoPrefix) {
		env, err := envelope.DecodeMemo(input)
		if err != nil {
			return nil, err
		}
		return &outputInspect{Format: "envelope", Detail: env}, nil
	}
	if strings.HasPrefix(input, escrow.ClaimCodePrefix) {
		proof, err := escrow.DecodeClaimCode(input)
		if err != nil {
			return nil, err
		}
		return &outputInspect{Format: "claim-code", Detail: claimDetail(proof)}, nil
	}

	raw, err := parseHexPayload(input)
	if err != nil {
		return nil, err
	}
	if len(raw) >= len(envelope.Magic) && string(raw[:len(envelope.Magic)]) == envelope.Magic {
		env, err := envelope.Decode(raw)
		if err != nil {
			return nil, err
		}
		return &outputInspect{Format: "envelope", Detail: env}, nil
	}

	decoded, err := wire.Decode(raw)
	if err != nil {
		return nil, err
	}
	out := &outputInspect{
		Format: "instruction",
		Domain: wire.DomainName(decoded.Schema.Domain),
		Op:     decoded.Schema.Name,
		Fields: make([]inspectField, 0, len(decoded.Fields)),
	}
	for _, f := range decoded.Fields {
		out.Fields = append(out.Fields, inspectField{
			Name:  f.Field.Name,
			Kind:  f.Field.Kind.String(),
			Value: renderFieldValue(f),
		})
	}
	if len(decoded.Tail) > 0 {
		out.Tail = "0x" + hex.EncodeToString(decoded.Tail)
	}
	return out, nil
}

func claimDetail(p *escrow.Proof) claimCodeDetail {
	d := claimCodeDetail{
		Leaf:       p.Leaf.Hex(),
		Index:      p.Index,
		Siblings:   make([]string, len(p.Siblings)),
		Directions: make([]int, len(p.Directions)),
	}
	for i, s := range p.Siblings {
		d.Siblings[i] = s.Hex()
	}
	for i, dir := range p.Directions {
		d.Directions[i] = int(dir)
	}
	return d
}

func renderFieldValue(f wire.DecodedField) string {
	switch f.Field.Kind {
	case wire.KindU8:
		return fmt.Sprintf("%d", f.Data[0])
	case wire.KindU16:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint16(f.Data))
	case wire.KindU32:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint32(f.Data))
	case wire.KindU64:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint64(f.Data))
	default:
		return "0x" + hex.EncodeToString(f.Data)
	}
}

func parseHexPayload(input string) ([]byte, error) {
	s := input
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not a hex payload: %v", err)
	}
	return raw, nil
}

func printInspect(out *outputInspect) {
	fmt.Println("Format:", out.Format)
	if out.Domain != "" {
		fmt.Println("Domain:", out.Domain)
	}
	if out.Op != "" {
		fmt.Println("Op:    ", out.Op)
	}
	for _, f := range out.Fields {
		fmt.Printf("  %-16s %-6s %s\n", f.Name, f.Kind, f.Value)
	}
	if out.Tail != "" {
		fmt.Println("Tail:  ", out.Tail)
	}
	if out.Detail != nil {
		mustPrintJSON(out.Detail)
	}
}
