package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// OrderedCounts is a label -> count mapping that keeps the key order of the
// source JSON object. The aggregator breaks ties with that order.
type OrderedCounts struct {
	Labels []string
	Values []int64
}

func (oc *OrderedCounts) Add(label string, value int64) {
	oc.Labels = append(oc.Labels, label)
	oc.Values = append(oc.Values, value)
}

func (oc OrderedCounts) Len() int { return len(oc.Labels) }

// UnmarshalJSON reads a flat object of non-negative integers, in order.
func (oc *OrderedCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object of counts", models.ErrInvalidAggregateData)
	}

	seen := make(map[string]struct{})
	out := OrderedCounts{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		label := tok.(string) // object keys are always strings

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return fmt.Errorf("%w: %q is not a number", models.ErrInvalidAggregateData, label)
		}
		v, err := strconv.ParseInt(num.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer count (%s)", models.ErrInvalidAggregateData, label, num)
		}
		if v < 0 {
			return fmt.Errorf("%w: %q has negative count %d", models.ErrInvalidAggregateData, label, v)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: duplicate label %q", models.ErrInvalidAggregateData, label)
		}
		seen[label] = struct{}{}
		out.Add(label, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if tok, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after counts object (%v)", ErrMalformedDocument, tok)
	}
	*oc = out
	return nil
}

// Relabel renames labels for presentation. Every entry goes through the same
// rules; two source labels landing on one target is rejected because counts
// are never re-aggregated here.
func Relabel(oc OrderedCounts, rules map[string]string) (OrderedCounts, error) {
	if len(rules) == 0 {
		return oc, nil
	}
	out := OrderedCounts{
		Labels: make([]string, 0, oc.Len()),
		Values: make([]int64, 0, oc.Len()),
	}
	from := make(map[string]string, oc.Len())
	for i, label := range oc.Labels {
		target := label
		if r, ok := rules[label]; ok {
			target = r
		}
		if prev, clash := from[target]; clash {
			return OrderedCounts{}, fmt.Errorf("%w: %q and %q both relabel to %q", models.ErrInvalidAggregateData, prev, label, target)
		}
		from[target] = label
		out.Add(target, oc.Values[i])
	}
	return out, nil
}
