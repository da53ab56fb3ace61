package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

var kindNames = map[Kind]string{
	KindNull:      "null",
	KindString:    "string",
	KindNumber:    "number",
	KindBool:      "bool",
	KindDatetime:  "datetime",
	KindReference: "reference",
	KindList:      "list",
	KindMap:       "map",
}

var kindValues = map[string]Kind{}

func init() {
	for k, v := range kindNames {
		kindValues[v] = k
	}
}

type jsonValue struct {
	Kind string                `json:"kind"`
	Str  string                `json:"str,omitempty"`
	Num  float64               `json:"num,omitempty"`
	Bool bool                  `json:"bool,omitempty"`
	Time *time.Time            `json:"time,omitempty"`
	List []Value               `json:"list,omitempty"`
	Map  map[string]Value      `json:"map,omitempty"`
}

// MarshalJSON stores the Value as an explicit, tagged object so decoding
// does not have to guess a Go type from a bare JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[v.Kind]
	if !ok {
		return nil, fmt.Errorf("schema: unknown value kind %d", v.Kind)
	}
	jv := jsonValue{Kind: name, Str: v.Str, Num: v.Num, Bool: v.Bool, List: v.List, Map: v.Map}
	if v.Kind == KindDatetime {
		t := v.Time
		jv.Time = &t
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	kind, ok := kindValues[jv.Kind]
	if !ok {
		return fmt.Errorf("schema: unknown value kind %q", jv.Kind)
	}
	*v = Value{Kind: kind, Str: jv.Str, Num: jv.Num, Bool: jv.Bool, List: jv.List, Map: jv.Map}
	if jv.Time != nil {
		v.Time = *jv.Time
	}
	return nil
}
