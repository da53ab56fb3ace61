package filter

import (
	"fmt"

	"github.com/inkdex/inkdex/pkg/keycodec"
	"github.com/inkdex/inkdex/pkg/schema"
)

// Plan is the result of compiling a Chain against an IndexDefinition: a
// byte range over that index's keys, plus whatever clauses the range could
// not narrow.
type Plan struct {
	// Left and Right bound the scan. A nil Left means "from the start of
	// the index"; a nil Right means "to the end of the index".
	Left, Right                   []byte
	LeftInclusive, RightInclusive bool
	Residual                      Chain
}

// FullScan is the plan for an empty filter chain: the entire index, in
// order, with nothing left to filter.
func FullScan() Plan {
	return Plan{LeftInclusive: true, RightInclusive: false}
}

// Compile derives a range-scan plan for chain against def. It walks def's
// fields in order, consuming leading equality clauses into a fixed key
// prefix, then turns the first non-equality clause it finds into a single
// range bound on that field and stops narrowing further fields. Everything
// the range could not account for — clauses on fields beyond the cutoff,
// clauses on fields the index does not carry, or a second clause competing
// for an already-consumed field — is returned as Residual.
func Compile(def schema.IndexDefinition, chain Chain) (Plan, error) {
	if len(chain) == 0 {
		return FullScan(), nil
	}

	consumed := make(map[string]bool, len(chain))
	var prefix []byte
	plan := Plan{LeftInclusive: true, RightInclusive: false}
	narrowed := false

	for _, f := range def.Fields {
		cl, ok := chain.find(f.Name)
		if !ok {
			break
		}
		consumed[f.Name] = true

		if cl.Op == OpEq {
			enc, err := encodeField(f, cl.Value)
			if err != nil {
				return Plan{}, err
			}
			prefix = append(prefix, enc...)
			continue
		}

		lo, hi, loInc, hiInc, err := rangeForClause(f, cl, prefix)
		if err != nil {
			return Plan{}, err
		}
		plan.Left, plan.Right = lo, hi
		plan.LeftInclusive, plan.RightInclusive = loInc, hiInc
		narrowed = true
		break
	}

	if !narrowed {
		plan.Left = prefix
		if len(prefix) > 0 {
			plan.Right = keycodec.PrefixUpperBound(prefix)
		}
		plan.RightInclusive = false
	}

	taken := make(map[string]bool, len(consumed))
	for _, cl := range chain {
		if consumed[cl.Field] && !taken[cl.Field] {
			taken[cl.Field] = true
			continue
		}
		plan.Residual = append(plan.Residual, cl)
	}

	return plan, nil
}

func rangeForClause(f schema.IndexField, cl Clause, prefix []byte) (lo, hi []byte, loInc, hiInc bool, err error) {
	switch cl.Op {
	case OpStartsWith:
		if cl.Value.Kind != schema.KindString && cl.Value.Kind != schema.KindReference {
			return nil, nil, false, false, fmt.Errorf("filter: startsWith requires a string or reference field, got field %q", f.Name)
		}
		rangePrefix := keycodec.EncodePrefix(append([]byte{}, prefix...), cl.Value.Str)
		return rangePrefix, keycodec.PrefixUpperBound(rangePrefix), true, false, nil

	case OpGt, OpGte:
		enc, err := encodeField(f, cl.Value)
		if err != nil {
			return nil, nil, false, false, err
		}
		lo := append(append([]byte{}, prefix...), enc...)
		if cl.Op == OpGt {
			// Keys whose field equals cl.Value extend lo with the encoded
			// path, so start past all of them.
			lo = keycodec.PrefixUpperBound(lo)
		}
		hi := keycodec.PrefixUpperBound(prefix)
		return lo, hi, cl.Op == OpGte, false, nil

	case OpLt, OpLte:
		enc, err := encodeField(f, cl.Value)
		if err != nil {
			return nil, nil, false, false, err
		}
		hi := append(append([]byte{}, prefix...), enc...)
		if cl.Op == OpLte {
			// Keys whose field equals cl.Value extend hi with the encoded
			// path, so end past all of them.
			hi = keycodec.PrefixUpperBound(hi)
		}
		return append([]byte{}, prefix...), hi, true, false, nil

	case OpBetween:
		loEnc, err := encodeField(f, cl.Value)
		if err != nil {
			return nil, nil, false, false, err
		}
		hiEnc, err := encodeField(f, cl.Upper)
		if err != nil {
			return nil, nil, false, false, err
		}
		lo := append(append([]byte{}, prefix...), loEnc...)
		hi := keycodec.PrefixUpperBound(append(append([]byte{}, prefix...), hiEnc...))
		return lo, hi, true, false, nil

	default:
		return nil, nil, false, false, fmt.Errorf("filter: unsupported range operator for field %q", f.Name)
	}
}

func encodeField(f schema.IndexField, v schema.Value) ([]byte, error) {
	switch f.Type {
	case schema.FieldString:
		return keycodec.EncodeString(nil, v.Str), nil
	case schema.FieldReference:
		return keycodec.EncodeReference(nil, v.Str), nil
	case schema.FieldBoolean:
		return keycodec.EncodeBool(nil, v.Bool), nil
	case schema.FieldDatetime:
		return keycodec.EncodeDatetime(nil, v.Time), nil
	case schema.FieldNumber:
		pad := keycodec.DefaultNumberPadding
		if f.Padding != nil {
			pad = *f.Padding
		}
		return keycodec.EncodeNumber(nil, v.Num, pad)
	default:
		return nil, fmt.Errorf("filter: field %q has non-indexable type", f.Name)
	}
}
