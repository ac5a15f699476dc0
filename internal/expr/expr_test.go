package expr

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string
}

type person struct {
	Name   string
	Age    int
	Nick   *string
	Addr   *address
	Joined time.Time
	Score  float64
}

var personType = reflect.TypeOf(person{})

func field(t *testing.T, operand Expr, name string) *Field {
	t.Helper()
	typ := operand.Type()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	sf, ok := typ.FieldByName(name)
	require.True(t, ok, "field %s", name)
	return FieldOf(operand, sf)
}

func strPtr(s string) *string { return &s }

// assertBoth checks that the interpreter and the compiled closure agree.
func assertBoth(t *testing.T, body Expr, item person, want bool) {
	t.Helper()
	l := NewLambda[person](Param("x", personType), body)
	assert.Equal(t, want, l.Eval(item), "Eval %s", l)
	assert.Equal(t, want, l.Compile()(item), "Compile %s", l)
}

func TestComparisons(t *testing.T) {
	x := Param("x", personType)
	age := field(t, x, "Age")
	score := field(t, x, "Score")
	joined := field(t, x, "Joined")

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ada := person{Name: "Ada", Age: 30, Score: 7.5, Joined: jan}

	tests := []struct {
		name string
		body Expr
		want bool
	}{
		{"equal int", Equal(age, Const(int64(30))), true},
		{"not equal int", NotEqual(age, Const(int64(30))), false},
		{"greater than boundary", GreaterThan(age, Const(int64(30))), false},
		{"greater or equal boundary", GreaterThanOrEqual(age, Const(int64(30))), true},
		{"less than", LessThan(age, Const(int64(31))), true},
		{"less or equal", LessThanOrEqual(age, Const(int64(29))), false},
		{"int against float", GreaterThan(age, Const(29.5)), true},
		{"float equal", Equal(score, Const(7.5)), true},
		{"time equal", Equal(joined, Const(jan)), true},
		{"time after", GreaterThan(joined, Const(jan.Add(-time.Hour))), true},
		{"string equal", Equal(field(t, x, "Name"), Const("Ada")), true},
		{"mismatched kinds", Equal(field(t, x, "Name"), Const(int64(3))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBoth(t, tt.body, ada, tt.want)
		})
	}
}

func TestNullSemantics(t *testing.T) {
	x := Param("x", personType)
	nick := field(t, x, "Nick")
	city := field(t, field(t, x, "Addr"), "City")

	noNick := person{Name: "Bob"}
	withNick := person{Name: "Bob", Nick: strPtr("bobby"), Addr: &address{City: "Paris"}}

	tests := []struct {
		name string
		body Expr
		item person
		want bool
	}{
		{"null equals null", IsNull(nick), noNick, true},
		{"null not equal null", IsNotNull(nick), noNick, false},
		{"value not null", IsNotNull(nick), withNick, true},
		{"null equals value", Equal(nick, Const("bobby")), noNick, false},
		{"null not equals value", NotEqual(nick, Const("bobby")), noNick, true},
		{"pointer equals value", Equal(nick, Const("bobby")), withNick, true},
		{"ordered with null", GreaterThan(nick, Const("a")), noNick, false},
		{"ordered negated with null", LessThanOrEqual(nick, Const("a")), noNick, false},
		{"nil pointer on path", Equal(city, Const("Paris")), noNick, false},
		{"nil pointer on path is null", IsNull(city), noNick, true},
		{"path through pointer", Equal(city, Const("Paris")), withNick, true},
		{"contains on null", Invoke(MethodContains, nick, Const("b")), noNick, false},
		{"trim of null is null", IsNull(Invoke(MethodTrim, nick)), noNick, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBoth(t, tt.body, tt.item, tt.want)
		})
	}
}

func TestLogicalAndCalls(t *testing.T) {
	x := Param("x", personType)
	name := field(t, x, "Name")
	age := field(t, x, "Age")

	p := person{Name: "  Grace Hopper ", Age: 85}

	tests := []struct {
		name string
		body Expr
		want bool
	}{
		{"and", AndAlso(Invoke(MethodContains, name, Const("Grace")), GreaterThan(age, Const(int64(80)))), true},
		{"and short", AndAlso(Const(false), Const(true)), false},
		{"or", OrElse(Const(false), Equal(age, Const(int64(85)))), true},
		{"not", Not(Invoke(MethodStartsWith, name, Const("Grace"))), true},
		{"trim then starts", Invoke(MethodStartsWith, Invoke(MethodTrim, name), Const("Grace")), true},
		{"ends with", Invoke(MethodEndsWith, Invoke(MethodTrim, name), Const("Hopper")), true},
		{"fold", Equal(Invoke(MethodFold, Invoke(MethodTrim, name)), Const("grace hopper")), true},
		{"membership hit", In(age, []any{int64(84), int64(85)}), true},
		{"membership miss", In(age, []any{int64(1)}), false},
		{"true literal", True(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBoth(t, tt.body, p, tt.want)
		})
	}
}

func TestLambdaOverPointerType(t *testing.T) {
	x := Param("x", reflect.TypeOf(&person{}))
	l := NewLambda[*person](x, Equal(field(t, x, "Name"), Const("Ada")))

	assert.True(t, l.Eval(&person{Name: "Ada"}))
	assert.False(t, l.Compile()(nil))
}

func TestString(t *testing.T) {
	x := Param("x", personType)
	body := AndAlso(
		GreaterThan(field(t, x, "Age"), Const(int64(30))),
		OrElse(
			Not(Invoke(MethodContains, field(t, x, "Name"), Const("a\"b"))),
			In(field(t, field(t, x, "Addr"), "City"), []any{"Paris", "Berlin"}),
		),
	)
	l := NewLambda[person](x, body)

	assert.Equal(t,
		`x => ((x.Age > 30) && (!x.Name.Contains("a\"b") || x.Addr.City in ["Paris", "Berlin"]))`,
		l.String())

	assert.Equal(t, "(x.Nick == null)", IsNull(field(t, x, "Nick")).String())
	assert.Equal(t, `"2024-03-01T10:00:00Z"`,
		Const(time.Date(2024, 3, 1, 11, 0, 0, 0, time.FixedZone("CET", 3600))).String())
	assert.Equal(t, "7.5", Const(7.5).String())
}

func TestWalkAndFields(t *testing.T) {
	x := Param("x", personType)
	city := field(t, field(t, x, "Addr"), "City")
	body := AndAlso(IsNotNull(city), Equal(field(t, x, "Age"), Const(int64(1))))

	var kinds []string
	Walk(body, func(e Expr) bool {
		kinds = append(kinds, reflect.TypeOf(e).Elem().Name())
		return true
	})
	assert.Equal(t, []string{
		"Binary", "Binary", "Field", "Field", "Parameter", "Constant",
		"Binary", "Field", "Parameter", "Constant",
	}, kinds)

	assert.Equal(t, []string{"x.Addr.City", "x.Age"}, Fields(body))
}

func TestScalar(t *testing.T) {
	assert.Nil(t, Scalar(reflect.Value{}))
	assert.Nil(t, Scalar(reflect.ValueOf((*int)(nil))))
	assert.Equal(t, int64(4), Scalar(reflect.ValueOf(int8(4))))
	assert.Equal(t, uint64(4), Scalar(reflect.ValueOf(uint16(4))))
	assert.Equal(t, float64(1.5), Scalar(reflect.ValueOf(float32(1.5))))
	assert.Equal(t, "s", Scalar(reflect.ValueOf(strPtr("s"))))
}
