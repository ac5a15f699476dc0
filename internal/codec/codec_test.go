package codec

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/predicate/internal/convert"
	"github.com/roach88/predicate/internal/generator"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/sample"
	"github.com/roach88/predicate/internal/testutil"
)

type customer = sample.Customer

func build(t *testing.T) *model.Compound[customer] {
	t.Helper()
	root := model.NewRootWithIDs[customer](testutil.NewSequentialIDs())
	require.NoError(t, root.AddAtomic().Configure("Age", "greater-than", 25))
	require.NoError(t, root.AddAtomic().Configure("Status", "is", sample.StatusActive))

	or := root.AddCompound(model.Or)
	countries := or.AddAtomic()
	require.NoError(t, countries.Configure("Country", "is one of", nil))
	countries.SetMultiSelectValues([]string{"France", "Spain"})
	return root
}

func compile(t *testing.T, root model.Unit[customer]) func(customer) bool {
	t.Helper()
	g := generator.New[customer](generator.Options{
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	fn, err := g.CompileFunc(root)
	require.NoError(t, err)
	return fn
}

func TestMarshalGolden(t *testing.T) {
	data, err := MarshalIndentJSON[customer](build(t))
	require.NoError(t, err)

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "document", data)
}

func TestJSONRoundTrip(t *testing.T) {
	root := build(t)
	data, err := MarshalJSON[customer](root)
	require.NoError(t, err)

	back, err := UnmarshalRoot[customer](data)
	require.NoError(t, err)

	assert.Equal(t, root.ID(), back.ID())
	assert.Equal(t, model.And, back.LogicalOperator)
	require.Len(t, back.Atomics(), 2)
	require.Len(t, back.Compounds(), 1)

	age := back.Atomics()[0]
	assert.Equal(t, testutil.ID(2), age.ID())
	assert.Equal(t, 25, age.Value())
	assert.Same(t, back, age.Parent())

	status := back.Atomics()[1]
	assert.Equal(t, sample.StatusActive, status.Value())

	or := back.Compounds()[0]
	assert.Equal(t, model.Or, or.LogicalOperator)
	assert.Same(t, back, or.Parent())
	assert.Equal(t, []string{"France", "Spain"}, or.Atomics()[0].MultiSelectValues())
	assert.Nil(t, or.Atomics()[0].Value())

	want, got := compile(t, root), compile(t, back)
	for _, c := range sample.Customers() {
		assert.Equal(t, want(c), got(c), c.Name)
	}

	again, err := MarshalJSON[customer](back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestYAMLRoundTrip(t *testing.T) {
	root := build(t)
	data, err := MarshalYAML[customer](root)
	require.NoError(t, err)
	assert.Contains(t, string(data), "$predicate-unit-type: compound-predicate")

	back, err := UnmarshalYAMLRoot[customer](data)
	require.NoError(t, err)
	assert.Equal(t, 25, back.Atomics()[0].Value())

	want, got := compile(t, root), compile(t, back)
	for _, c := range sample.Customers() {
		assert.Equal(t, want(c), got(c), c.Name)
	}
}

func TestUnmarshalAtomicRoot(t *testing.T) {
	doc := `{"$predicate-unit-type":"atomic-predicate","Member":"Address.City","Operator":"equals","Value":"Paris"}`
	u, err := UnmarshalJSON[customer]([]byte(doc))
	require.NoError(t, err)

	a, ok := u.(*model.Atomic[customer])
	require.True(t, ok)
	assert.Equal(t, "Address.City", a.Member())
	assert.Equal(t, "Paris", a.Value())
	assert.NotZero(t, a.ID(), "missing Id gets a fresh one")

	_, err = UnmarshalRoot[customer]([]byte(doc))
	require.Error(t, err)
	assert.True(t, IsError(err))
}

func TestLogicalOperatorForms(t *testing.T) {
	tests := []struct {
		raw  string
		want model.LogicalOperator
	}{
		{`"And"`, model.And},
		{`"or"`, model.Or},
		{`0`, model.And},
		{`1`, model.Or},
		{`null`, model.And},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			doc := `{"$predicate-unit-type":"compound-predicate","LogicalOperator":` + tt.raw + `}`
			c, err := UnmarshalRoot[customer]([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.LogicalOperator)
			assert.Zero(t, c.Len())
		})
	}

	_, err := UnmarshalRoot[customer]([]byte(`{"$predicate-unit-type":"compound-predicate","LogicalOperator":"Xor"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$.LogicalOperator")
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"not json", `{`, "$"},
		{"missing discriminator", `{"Member":"Age"}`, "$"},
		{"unknown discriminator", `{"$predicate-unit-type":"group"}`, "$"},
		{
			"nested unknown",
			`{"$predicate-unit-type":"compound-predicate","CompoundPredicates":[{"$predicate-unit-type":"x"}]}`,
			"$.CompoundPredicates[0]",
		},
		{
			"compound under atomics",
			`{"$predicate-unit-type":"compound-predicate","AtomicPredicates":[{"$predicate-unit-type":"compound-predicate"}]}`,
			"$.AtomicPredicates[0]",
		},
		{
			"atomic under compounds",
			`{"$predicate-unit-type":"compound-predicate","CompoundPredicates":[{"$predicate-unit-type":"atomic-predicate"}]}`,
			"$.CompoundPredicates[0]",
		},
		{
			"unknown member",
			`{"$predicate-unit-type":"compound-predicate","AtomicPredicates":[{"$predicate-unit-type":"atomic-predicate","Member":"Shoe"}]}`,
			"$.AtomicPredicates[0].Member",
		},
		{
			"blank member",
			`{"$predicate-unit-type":"atomic-predicate","Member":"  ","MemberType":"int","Operator":"equals","Value":1}`,
			"$.Member",
		},
		{
			"member type drift",
			`{"$predicate-unit-type":"atomic-predicate","Member":"Age","MemberType":"string"}`,
			"$.MemberType",
		},
		{
			"object value",
			`{"$predicate-unit-type":"atomic-predicate","Member":"Age","Operator":"equals","Value":{"a":1}}`,
			"$.Value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalJSON[customer]([]byte(tt.doc))
			require.Error(t, err)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.path, ce.Path)
		})
	}
}

func TestUnconvertibleValueKeptAsText(t *testing.T) {
	doc := `{"$predicate-unit-type":"compound-predicate","AtomicPredicates":[
		{"$predicate-unit-type":"atomic-predicate","Member":"Age","Operator":"equals","Value":"thirty"}]}`
	root, err := UnmarshalRoot[customer]([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "thirty", root.Atomics()[0].Value())

	_, err = generator.New[customer](generator.Options{}).CompileExpression(root)
	require.Error(t, err)
	assert.True(t, convert.IsConversionError(err))
}

func TestListValueKeptRaw(t *testing.T) {
	doc := `{"$predicate-unit-type":"atomic-predicate","Member":"Age","Operator":"is one of","Value":"27, 61"}`
	u, err := UnmarshalJSON[customer]([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "27, 61", u.(*model.Atomic[customer]).Value())
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint[customer](build(t))
	require.NoError(t, err)
	assert.Len(t, a, 64)

	// IDs do not contribute
	other := model.NewRoot[customer]()
	require.NoError(t, other.AddAtomic().Configure("Age", ">", 25))
	require.NoError(t, other.AddAtomic().Configure("Status", "is", sample.StatusActive))
	or := other.AddCompound(model.Or)
	require.NoError(t, or.AddAtomic().Configure("Country", "is one of", nil))
	or.Atomics()[0].SetMultiSelectValues([]string{"France", "Spain"})

	b, err := Fingerprint[customer](other)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// text and native forms of a value hash alike
	other.Atomics()[0].SetValue("25")
	c, err := Fingerprint[customer](other)
	require.NoError(t, err)
	assert.Equal(t, a, c)

	other.Atomics()[0].SetValue(26)
	d, err := Fingerprint[customer](other)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)

	data, err := MarshalJSON[customer](build(t))
	require.NoError(t, err)
	back, err := UnmarshalRoot[customer](data)
	require.NoError(t, err)
	e, err := Fingerprint[customer](back)
	require.NoError(t, err)
	assert.Equal(t, a, e)
}

func TestFingerprintNormalizesValues(t *testing.T) {
	hash := func(member, op string, value any) string {
		t.Helper()
		root := model.NewRoot[customer]()
		require.NoError(t, root.AddAtomic().Configure(member, op, value))
		fp, err := Fingerprint[customer](root)
		require.NoError(t, err)
		return fp
	}

	tests := []struct {
		name   string
		member string
		op     string
		a, b   any
	}{
		{"date spellings", "JoinedAt", "after", "2024-01-01", "2024-01-01T00:00:00Z"},
		{"date native", "JoinedAt", "after", "2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"number spellings", "Balance", "greater-than", "10", "10.0"},
		{"enum native", "Status", "is", "Closed", sample.StatusClosed},
		{"list slice and text", "Age", "is one of", []string{"27", "61"}, "27, 61"},
		{"list token spellings", "JoinedAt", "is one of", "2024-01-01", "2024-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, hash(tt.member, tt.op, tt.a), hash(tt.member, tt.op, tt.b))
		})
	}

	assert.NotEqual(t, hash("JoinedAt", "after", "2024-01-01"), hash("JoinedAt", "after", "2024-01-02"))
	assert.NotEqual(t, hash("Age", "is one of", "27, 61"), hash("Age", "is one of", "27"))
}

func TestErrorMessage(t *testing.T) {
	err := errorf("$.AtomicPredicates[1]", nil, "unknown %s %q", DiscriminatorKey, "x")
	assert.Equal(t, `codec: $.AtomicPredicates[1]: unknown $predicate-unit-type "x"`, err.Error())
	assert.True(t, strings.HasPrefix(errorf("$", assert.AnError, "bad").Error(), "codec: $: bad: "))
}
