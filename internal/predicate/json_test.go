package predicate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qsfilter/internal/value"
)

func intPtr(n int) *int { return &n }

func sampleSpec() *Spec {
	spec := &Spec{
		Order:  []Order{{Field: "name", Direction: Asc}},
		Offset: intPtr(25),
		Limit:  intPtr(25),
	}
	spec.Predicates.Set("status", Compare(Eq, value.Text("active")))
	spec.Predicates.Set("age", Range(value.Int(20), value.Float(30.5)))
	spec.Predicates.Set("lastLogin", Compare(Eq, value.Text("2022-07-06")).Truncated())
	spec.Predicates.Set("deletedAt", Null())
	return spec
}

func TestSpecMarshalJSONKeepsFieldOrder(t *testing.T) {
	b, err := json.Marshal(sampleSpec())
	require.NoError(t, err)

	want := `{"predicates":{` +
		`"status":{"kind":"eq","value":"active"},` +
		`"age":{"kind":"between","values":[20,30.5]},` +
		`"lastLogin":{"kind":"eq","value":"2022-07-06","date_only":true},` +
		`"deletedAt":{"kind":"is_null"}},` +
		`"order":[{"field":"name","direction":"ASC"}],"offset":25,"limit":25}`
	assert.Equal(t, want, string(b))
}

func TestSpecMarshalJSONOmitsEmptyParts(t *testing.T) {
	b, err := json.Marshal(&Spec{})
	require.NoError(t, err)
	assert.Equal(t, `{"predicates":{}}`, string(b))
}

func TestSpecMarshalJSONValues(t *testing.T) {
	spec := &Spec{}
	when := time.Date(2022, 7, 6, 10, 30, 0, 0, time.UTC)
	spec.Predicates.Set("d", Compare(Gte, value.NewDate(when)))
	spec.Predicates.Set("b", Compare(Eq, value.Bool(false)))
	spec.Predicates.Set("s", Set(NotIn, value.Text("<a&b>"), value.Null{}))

	b, err := spec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"predicates":{"d":{"kind":"gte","value":"2022-07-06T10:30:00Z"},"b":{"kind":"eq","value":false},"s":{"kind":"not_in","values":["<a&b>",null]}}}`,
		string(b))
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	spec := &Spec{}
	spec.Predicates.Set("z", Null())
	spec.Predicates.Set("a", NotNull())

	b, err := MarshalCanonical(spec)
	require.NoError(t, err)
	assert.Equal(t, `{"predicates":{"a":{"kind":"is_not_null"},"z":{"kind":"is_null"}}}`, string(b))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	composed := &Spec{}
	composed.Predicates.Set("name", Compare(Eq, value.Text("caf\u00e9")))
	decomposed := &Spec{}
	decomposed.Predicates.Set("name", Compare(Eq, value.Text("cafe\u0301")))

	a, err := MarshalCanonical(composed)
	require.NoError(t, err)
	b, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+1F600 encodes as a surrogate pair starting at 0xD83D, so it sorts
	// before U+FF61 in UTF-16 even though UTF-8 bytes order them the other way.
	spec := &Spec{}
	spec.Predicates.Set("\U0001F600", Null())
	spec.Predicates.Set("｡", Null())

	b, err := MarshalCanonical(spec)
	require.NoError(t, err)
	assert.Equal(t, `{"predicates":{"`+"\U0001F600"+`":{"kind":"is_null"},"`+"｡"+`":{"kind":"is_null"}}}`, string(b))
}

func TestMarshalCanonicalNil(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := &Spec{}
	a.Predicates.Set("x", Compare(Eq, value.Int(1)))
	a.Predicates.Set("y", NotNull())

	b := &Spec{}
	b.Predicates.Set("y", NotNull())
	b.Predicates.Set("x", Compare(Eq, value.Int(1)))

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb, "field order must not change the fingerprint")
	assert.Len(t, fa, 64)

	b.Limit = intPtr(10)
	fc, err := Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
