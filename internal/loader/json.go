package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

// ParseJSON reads a definition made of the four tables durations, roles,
// rates and precedences. Activity declaration order is the key order of
// precedences, which gjson preserves.
func ParseJSON(data []byte) (network.Definition, error) {
	var def network.Definition

	if !gjson.ValidBytes(data) {
		return def, fmt.Errorf("%w: invalid JSON", ErrFormat)
	}
	root := gjson.ParseBytes(data)

	tables := map[string]gjson.Result{}
	for _, key := range []string{"durations", "roles", "rates", "precedences"} {
		v := root.Get(key)
		if !v.IsObject() {
			return def, fmt.Errorf("%w: missing %q object", ErrFormat, key)
		}
		tables[key] = v
	}
	def.Name = root.Get("name").String()

	var err error
	tables["rates"].ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Number {
			err = fmt.Errorf("%w: rate of %q is not a number", ErrFormat, k.String())
			return false
		}
		def.Rates = append(def.Rates, network.RateSpec{Role: k.String(), Rate: v.Float()})
		return true
	})
	if err != nil {
		return def, err
	}

	roles := make(map[string][]string)
	tables["roles"].ForEach(func(k, v gjson.Result) bool {
		roles[k.String()], err = stringList(v, "roles of "+strconv.Quote(k.String()))
		return err == nil
	})
	if err != nil {
		return def, err
	}

	durations := make(map[string]map[network.Scenario]float64)
	seen := make(map[network.Scenario]string, len(network.Scenarios))
	tables["durations"].ForEach(func(k, v gjson.Result) bool {
		sc, perr := network.ParseScenario(k.String())
		if perr != nil {
			err = fmt.Errorf("%w: %v", ErrFormat, perr)
			return false
		}
		if prev, dup := seen[sc]; dup {
			err = fmt.Errorf("%w: durations %q and %q both name the %s scenario", ErrFormat, prev, k.String(), sc)
			return false
		}
		seen[sc] = k.String()
		if !v.IsObject() {
			err = fmt.Errorf("%w: %s durations must be an object", ErrFormat, sc)
			return false
		}
		v.ForEach(func(id, d gjson.Result) bool {
			if d.Type != gjson.Number {
				err = fmt.Errorf("%w: %s duration of %q is not a number", ErrFormat, sc, id.String())
				return false
			}
			if durations[id.String()] == nil {
				durations[id.String()] = make(map[network.Scenario]float64, len(network.Scenarios))
			}
			durations[id.String()][sc] = d.Float()
			return true
		})
		return err == nil
	})
	if err != nil {
		return def, err
	}

	declared := make(map[string]bool)
	tables["precedences"].ForEach(func(k, v gjson.Result) bool {
		id := k.String()
		preds, perr := stringList(v, "precedences of "+strconv.Quote(id))
		if perr != nil {
			err = perr
			return false
		}
		declared[id] = true
		def.Activities = append(def.Activities, network.ActivitySpec{
			ID:           id,
			Durations:    durations[id],
			Roles:        roles[id],
			Predecessors: preds,
		})
		return true
	})
	if err != nil {
		return def, err
	}

	for id := range roles {
		if !declared[id] {
			return def, fmt.Errorf("%w: roles given for undeclared activity %q", ErrFormat, id)
		}
	}
	for id := range durations {
		if !declared[id] {
			return def, fmt.Errorf("%w: durations given for undeclared activity %q", ErrFormat, id)
		}
	}

	return def, nil
}

func stringList(v gjson.Result, what string) ([]string, error) {
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: %s must be an array", ErrFormat, what)
	}
	var out []string
	for _, item := range v.Array() {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: %s must contain strings", ErrFormat, what)
		}
		out = append(out, item.String())
	}
	return out, nil
}

// EncodeJSON writes def in the format ParseJSON reads, keeping declaration
// order in every table.
func EncodeJSON(def network.Definition) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{\n")
	if def.Name != "" {
		fmt.Fprintf(&b, "  \"name\": %s,\n", quote(def.Name))
	}

	b.WriteString("  \"durations\": {\n")
	for i, sc := range network.Scenarios {
		fmt.Fprintf(&b, "    %s: {", quote(string(sc)))
		for j, a := range def.Activities {
			sep(&b, j)
			fmt.Fprintf(&b, "%s: %s", quote(a.ID), number(a.Durations[sc]))
		}
		b.WriteString("}")
		endEntry(&b, i, len(network.Scenarios))
	}
	b.WriteString("  },\n")

	b.WriteString("  \"roles\": {\n")
	for i, a := range def.Activities {
		fmt.Fprintf(&b, "    %s: %s", quote(a.ID), quoteList(a.Roles))
		endEntry(&b, i, len(def.Activities))
	}
	b.WriteString("  },\n")

	b.WriteString("  \"rates\": {\n")
	for i, r := range def.Rates {
		fmt.Fprintf(&b, "    %s: %s", quote(r.Role), number(r.Rate))
		endEntry(&b, i, len(def.Rates))
	}
	b.WriteString("  },\n")

	b.WriteString("  \"precedences\": {\n")
	for i, a := range def.Activities {
		fmt.Fprintf(&b, "    %s: %s", quote(a.ID), quoteList(a.Predecessors))
		endEntry(&b, i, len(def.Activities))
	}
	b.WriteString("  }\n}\n")

	if !gjson.ValidBytes(b.Bytes()) {
		return nil, fmt.Errorf("encode definition: produced invalid JSON")
	}
	return b.Bytes(), nil
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func quoteList(items []string) string {
	var b bytes.Buffer
	b.WriteString("[")
	for i, s := range items {
		sep(&b, i)
		b.WriteString(quote(s))
	}
	b.WriteString("]")
	return b.String()
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sep(b *bytes.Buffer, i int) {
	if i > 0 {
		b.WriteString(", ")
	}
}

func endEntry(b *bytes.Buffer, i, n int) {
	if i < n-1 {
		b.WriteString(",")
	}
	b.WriteString("\n")
}
