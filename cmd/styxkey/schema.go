package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/styx-network/gstyx/cmd/utils"
	"github.com/styx-network/gstyx/internal/flags"
	"github.com/styx-network/gstyx/wire"
)

var domainFlag = &cli.StringFlag{
	Name:     "domain",
	Usage:    "only list schemas of this domain (memo, escrow)",
	Category: flags.WireCategory,
}

type schemaSummary struct {
	Domain   string `json:"domain"`
	Op       string `json:"op"`
	Name     string `json:"name"`
	MinBytes int    `json:"minBytes"`
	Fields   int    `json:"fields"`
	Tail     bool   `json:"tail"`
}

type schemaFieldInfo struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Size   int    `json:"size,omitempty"`
}

type schemaDetail struct {
	schemaSummary
	FieldList []schemaFieldInfo `json:"fieldList"`
}

var commandSchema = &cli.Command{
	Name:      "schema",
	Usage:     "list registered instruction schemas",
	ArgsUsage: "[name]",
	Description: `
Print the instruction schemas known to the wire registry. With no
argument all schemas are listed; with a schema name the field layout
of that schema is shown.`,
	Flags: []cli.Flag{
		domainFlag,
		jsonFlag,
	},
	Action: func(ctx *cli.Context) error {
		if name := ctx.Args().First(); name != "" {
			schema := findSchema(name)
			if schema == nil {
				utils.Fatalf("Unknown schema %q", name)
			}
			detail := describeSchema(schema)
			if ctx.Bool(jsonFlag.Name) {
				mustPrintJSON(detail)
			} else {
				printSchemaDetail(detail)
			}
			return nil
		}

		summaries := listSchemas(ctx.String(domainFlag.Name))
		if ctx.Bool(jsonFlag.Name) {
			mustPrintJSON(summaries)
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Domain", "Op", "Name", "Min bytes", "Fields", "Tail"})
		for _, s := range summaries {
			table.Append([]string{
				s.Domain, s.Op, s.Name,
				strconv.Itoa(s.MinBytes), strconv.Itoa(s.Fields),
				strconv.FormatBool(s.Tail),
			})
		}
		table.Render()
		return nil
	},
}

func listSchemas(domain string) []schemaSummary {
	var filter *wire.Domain
	if domain != "" {
		d, err := parseDomain(domain)
		if err != nil {
			utils.Fatalf("%v", err)
		}
		filter = &d
	}
	var out []schemaSummary
	for _, s := range wire.Schemas() {
		if filter != nil && s.Domain != *filter {
			continue
		}
		out = append(out, summarizeSchema(s))
	}
	return out
}

func parseDomain(name string) (wire.Domain, error) {
	switch strings.ToLower(name) {
	case "memo":
		return wire.DomainMemo, nil
	case "escrow":
		return wire.DomainEscrow, nil
	default:
		return 0, fmt.Errorf("unknown domain %q (want memo or escrow)", name)
	}
}

func findSchema(name string) *wire.Schema {
	for _, s := range wire.Schemas() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func summarizeSchema(s *wire.Schema) schemaSummary {
	return schemaSummary{
		Domain:   wire.DomainName(s.Domain),
		Op:       fmt.Sprintf("0x%02x", uint8(s.Op)),
		Name:     s.Name,
		MinBytes: s.MinLen(),
		Fields:   len(s.Fields),
		Tail:     s.AllowTail,
	}
}

func describeSchema(s *wire.Schema) *schemaDetail {
	detail := &schemaDetail{schemaSummary: summarizeSchema(s)}
	for _, f := range s.Fields {
		detail.FieldList = append(detail.FieldList, schemaFieldInfo{
			Name:   f.Name,
			Kind:   f.Kind.String(),
			Offset: f.Offset,
			Size:   fieldWidth(f),
		})
	}
	return detail
}

// fieldWidth reports the fixed wire width of a field, or 0 for
// variable-length kinds.
func fieldWidth(f wire.Field) int {
	switch f.Kind {
	case wire.KindU8:
		return 1
	case wire.KindU16:
		return 2
	case wire.KindU32:
		return 4
	case wire.KindU64:
		return 8
	case wire.KindBytes:
		return f.Size
	default:
		return 0
	}
}

func printSchemaDetail(d *schemaDetail) {
	fmt.Printf("%s/%s (op %s), min %d bytes", d.Domain, d.Name, d.Op, d.MinBytes)
	if d.Tail {
		fmt.Print(", tail allowed")
	}
	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Kind", "Offset", "Size"})
	for _, f := range d.FieldList {
		size := "var"
		if f.Size > 0 {
			size = strconv.Itoa(f.Size)
		}
		table.Append([]string{f.Name, f.Kind, strconv.Itoa(f.Offset), size})
	}
	table.Render()
}
