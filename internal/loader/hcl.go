package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

// hclNetworkFile represents the top-level structure of a network file for decoding.
type hclNetworkFile struct {
	Name       string         `hcl:"name,optional"`
	Roles      []*hclRole     `hcl:"role,block"`
	Activities []*hclActivity `hcl:"activity,block"`
}

type hclRole struct {
	ID   string  `hcl:"id,label"`
	Rate float64 `hcl:"rate"`
}

type hclActivity struct {
	ID        string             `hcl:"id,label"`
	Durations map[string]float64 `hcl:"durations"`
	Roles     []string           `hcl:"roles"`
	DependsOn []string           `hcl:"depends_on,optional"`
}

// ParseHCL decodes a network written as role and activity blocks.
func ParseHCL(src []byte, filename string) (network.Definition, error) {
	var def network.Definition

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return def, fmt.Errorf("%w: parse %s: %s", ErrFormat, filename, diags.Error())
	}

	var parsed hclNetworkFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return def, fmt.Errorf("%w: decode %s: %s", ErrFormat, filename, diags.Error())
	}

	def.Name = parsed.Name
	for _, r := range parsed.Roles {
		def.Rates = append(def.Rates, network.RateSpec{Role: r.ID, Rate: r.Rate})
	}
	for _, a := range parsed.Activities {
		spec := network.ActivitySpec{
			ID:           a.ID,
			Durations:    make(map[network.Scenario]float64, len(a.Durations)),
			Roles:        a.Roles,
			Predecessors: a.DependsOn,
		}
		keys := make([]string, 0, len(a.Durations))
		for key := range a.Durations {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		seen := make(map[network.Scenario]string, len(keys))
		for _, key := range keys {
			sc, err := network.ParseScenario(key)
			if err != nil {
				return def, fmt.Errorf("%w: activity %q: %v", ErrFormat, a.ID, err)
			}
			if prev, dup := seen[sc]; dup {
				return def, fmt.Errorf("%w: activity %q: durations %q and %q both name the %s scenario", ErrFormat, a.ID, prev, key, sc)
			}
			seen[sc] = key
			spec.Durations[sc] = a.Durations[key]
		}
		def.Activities = append(def.Activities, spec)
	}

	return def, nil
}

// EncodeHCL renders def as role and activity blocks.
func EncodeHCL(def network.Definition) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if def.Name != "" {
		body.SetAttributeValue("name", cty.StringVal(def.Name))
		body.AppendNewline()
	}

	for _, r := range def.Rates {
		blk := body.AppendNewBlock("role", []string{r.Role})
		blk.Body().SetAttributeValue("rate", cty.NumberFloatVal(r.Rate))
	}
	if len(def.Rates) > 0 {
		body.AppendNewline()
	}

	for i, a := range def.Activities {
		if i > 0 {
			body.AppendNewline()
		}
		blk := body.AppendNewBlock("activity", []string{a.ID})
		ab := blk.Body()

		// cty sorts object attributes by name when rendered
		durations := make(map[string]cty.Value, len(a.Durations))
		for sc, d := range a.Durations {
			durations[string(sc)] = cty.NumberFloatVal(d)
		}
		if len(durations) > 0 {
			ab.SetAttributeValue("durations", cty.ObjectVal(durations))
		} else {
			ab.SetAttributeValue("durations", cty.EmptyObjectVal)
		}
		ab.SetAttributeValue("roles", stringListVal(a.Roles))
		ab.SetAttributeValue("depends_on", stringListVal(a.Predecessors))
	}

	return hclwrite.Format(f.Bytes())
}

func stringListVal(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
