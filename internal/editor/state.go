package editor

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// State is the serializable part of a calculator session.
type State struct {
	Formula         string // displayed formula, the source of truth for input
	Result          string // live result line
	PreviousFormula string // echo of the last evaluated formula
	LastKey         KeyKind
	LastOperation   Key
	Degrees         bool
	BaseValue       *apd.Decimal // last successful answer; nil reads as zero
	SecondValue     *apd.Decimal // reserved, persisted but never evaluated
}

// Record is the flat key-value form of a State.
type Record map[string]string

// Record keys.
const (
	KeyResult           = "result"
	KeyPreviousFormula  = "previous_formula"
	KeyLastKey          = "last_key"
	KeyLastOperation    = "last_operation"
	KeyBaseValue        = "base_value"
	KeySecondValue      = "second_value"
	KeyDisplayedFormula = "displayed_formula"
	KeyDegrees          = "degrees"
)

// Record flattens the state.
func (s State) Record() Record {
	return Record{
		KeyResult:           s.Result,
		KeyPreviousFormula:  s.PreviousFormula,
		KeyLastKey:          s.LastKey.String(),
		KeyLastOperation:    s.LastOperation.String(),
		KeyBaseValue:        decimalString(s.BaseValue),
		KeySecondValue:      decimalString(s.SecondValue),
		KeyDisplayedFormula: s.Formula,
		KeyDegrees:          strconv.FormatBool(s.Degrees),
	}
}

// StateFromRecord rebuilds a state. It never fails: malformed or missing
// numbers become zero, unknown tags become their zero value, and a missing
// formula or result reads as "0".
func StateFromRecord(r Record) State {
	s := State{
		Formula:         r[KeyDisplayedFormula],
		Result:          r[KeyResult],
		PreviousFormula: r[KeyPreviousFormula],
		BaseValue:       parseDecimal(r[KeyBaseValue]),
		SecondValue:     parseDecimal(r[KeySecondValue]),
	}
	if _, ok := r[KeyDisplayedFormula]; !ok {
		s.Formula = "0"
	}
	if _, ok := r[KeyResult]; !ok {
		s.Result = "0"
	}
	s.LastKey, _ = ParseKeyKind(r[KeyLastKey])
	s.LastOperation, _ = ParseKey(r[KeyLastOperation])
	s.Degrees, _ = strconv.ParseBool(r[KeyDegrees])
	return s
}

// MarshalState encodes a state as a JSON object.
func MarshalState(s State) ([]byte, error) {
	return json.Marshal(s.Record())
}

// UnmarshalState decodes a JSON object written by MarshalState. Only a
// document that is not a JSON object is an error; numbers and booleans
// are accepted in place of their string forms and other values dropped.
func UnmarshalState(data []byte) (State, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return State{}, err
	}
	r := make(Record, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			r[k] = v
		case json.Number:
			r[k] = v.String()
		case bool:
			r[k] = strconv.FormatBool(v)
		}
	}
	return StateFromRecord(r), nil
}

func decimalString(d *apd.Decimal) string {
	if d == nil {
		return "0"
	}
	return d.String()
}

func parseDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return apd.New(0, 0)
	}
	return d
}
