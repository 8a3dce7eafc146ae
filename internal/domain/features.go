package domain

import (
	"math"
	"strconv"
	"strings"
)

// FeatureCount is the arity of every feature vector.
const FeatureCount = 9

// Feature describes one model input column.
type Feature struct {
	Name  string // column name used by the trained models
	Label string // form field name shown to users
}

// Features lists the model inputs in canonical column order.
var Features = [FeatureCount]Feature{
	{Name: "MUCAPE", Label: "Most Unstable Parcel CAPE"},
	{Name: "MUCIN", Label: "Most Unstable Parcel CIN"},
	{Name: "MULCL", Label: "Most Unstable Parcel LCL"},
	{Name: "LLCAPE", Label: "Most Unstable Parcel CAPE in the 3km above the LFC"},
	{Name: "sfc1shear", Label: "0-1 Bulk Wind Difference"},
	{Name: "EBWD", Label: "Effective Bulk Wind Difference"},
	{Name: "ESRH", Label: "Effective Storm Relative Helicity"},
	{Name: "el_sr_wind", Label: "Storm Relative Wind at the Equlibrium Level"},
	{Name: "eff_inflow_sr_wind", Label: "Storm Relative Wind in the Effective Inflow Layer"},
}

// FeatureNames returns the canonical column names in order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	for i, f := range Features {
		names[i] = f.Name
	}
	return names
}

// FeatureVector is an ordered set of inputs in canonical column order.
// It is an array so copies never alias.
type FeatureVector [FeatureCount]float64

// RawInput holds the submitted strings in canonical order.
type RawInput struct {
	values  [FeatureCount]string
	present [FeatureCount]bool
}

// EchoField is one submitted value paired with its display label.
type EchoField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewRawInput picks the nine fields out of a submission. Each field is looked
// up by its display label first, then by its column name. Keys that match no
// field are ignored.
func NewRawInput(values map[string]string) RawInput {
	var in RawInput
	for i, f := range Features {
		if v, ok := values[f.Label]; ok {
			in.values[i], in.present[i] = v, true
			continue
		}
		if v, ok := values[f.Name]; ok {
			in.values[i], in.present[i] = v, true
		}
	}
	return in
}

// Value returns the submitted string for column i and whether it was present.
func (r RawInput) Value(i int) (string, bool) {
	return r.values[i], r.present[i]
}

// Echo returns the submitted fields in canonical order. Absent fields are
// skipped.
func (r RawInput) Echo() []EchoField {
	out := make([]EchoField, 0, FeatureCount)
	for i, f := range Features {
		if !r.present[i] {
			continue
		}
		out = append(out, EchoField{Name: f.Name, Label: f.Label, Value: r.values[i]})
	}
	return out
}

// EchoMap returns the submitted fields keyed by display label.
func (r RawInput) EchoMap() map[string]string {
	out := make(map[string]string, FeatureCount)
	for _, e := range r.Echo() {
		out[e.Label] = e.Value
	}
	return out
}

// BuildFeatureVector parses every field as a finite float64. Problems with
// individual fields are collected into a single *ValidationError.
func BuildFeatureVector(in RawInput) (FeatureVector, error) {
	var (
		vec      FeatureVector
		problems []error
	)
	for i, f := range Features {
		raw, ok := in.Value(i)
		s := strings.TrimSpace(raw)
		if !ok || s == "" {
			problems = append(problems, &MissingFieldError{Field: f.Name, Label: f.Label})
			continue
		}
		v, err := parseFinite(s)
		if err != nil {
			problems = append(problems, &ParseError{Field: f.Name, Label: f.Label, Value: raw, Err: err})
			continue
		}
		vec[i] = v
	}
	if len(problems) > 0 {
		return FeatureVector{}, &ValidationError{Problems: problems}
	}
	return vec, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
