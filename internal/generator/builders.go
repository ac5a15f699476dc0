package generator

import (
	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/roach88/predicate/internal/classify"
	"github.com/roach88/predicate/internal/convert"
	"github.com/roach88/predicate/internal/expr"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/operator"
)

// leaf carries what every type-specific builder needs.
type leaf[T any] struct {
	a     *model.Atomic[T]
	info  classify.Info
	field expr.Expr
	op    string // canonical
}

func (g *Generator[T]) atomic(a *model.Atomic[T]) (expr.Expr, error) {
	if !a.Complete() {
		g.log.Debug("skipping incomplete predicate",
			"id", a.ID(), "member", a.Member(), "operator", a.Operator())
		return nil, nil
	}

	l := leaf[T]{
		a:     a,
		info:  a.Field(),
		field: a.Accessor().Bind(g.param),
		op:    operator.Canonical(a.Operator()),
	}

	var (
		e   expr.Expr
		err error
	)
	switch {
	case operator.IsList(l.op) && l.info.Category != classify.Other:
		e, err = g.list(l)
	case l.info.Category == classify.String:
		e, err = g.str(l)
	case l.info.Category == classify.Number:
		e, err = g.number(l)
	case l.info.Category == classify.Enum:
		e, err = g.enum(l)
	case l.info.Category == classify.Boolean:
		e, err = g.boolean(l)
	case l.info.Category == classify.DateTime:
		e, err = g.datetime(l)
	case l.info.Category == classify.Guid:
		e, err = g.guid(l)
	default:
		e, err = g.unsupported(l)
	}
	if err != nil {
		return nil, &LeafError{ID: a.ID(), Member: a.Member(), Err: err}
	}
	return e, nil
}

func (g *Generator[T]) unsupported(l leaf[T]) (expr.Expr, error) {
	if g.opts.Mode == Strict {
		return nil, &UnsupportedOperatorError{
			ID:       l.a.ID(),
			Member:   l.a.Member(),
			Operator: l.a.Operator(),
			Category: l.info.Category,
		}
	}
	g.log.Debug("unsupported operator, leaf matches everything",
		"id", l.a.ID(), "member", l.a.Member(), "operator", l.a.Operator(), "category", l.info.Category)
	return expr.True(), nil
}

func (g *Generator[T]) value(l leaf[T]) (*expr.Constant, error) {
	v, err := convert.ToNative(l.info, l.a.Value())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return expr.Null(l.info.Type), nil
	}
	return expr.Const(v), nil
}

func (g *Generator[T]) folded() bool { return g.opts.CaseSensitivity == CaseInsensitive }

func (g *Generator[T]) str(l leaf[T]) (expr.Expr, error) {
	f := l.field
	switch l.op {
	case operator.Empty:
		return expr.OrElse(expr.IsNull(f), expr.Equal(expr.Invoke(expr.MethodTrim, f), expr.Const(""))), nil
	case operator.NotEmpty:
		return expr.AndAlso(expr.IsNotNull(f), expr.NotEqual(expr.Invoke(expr.MethodTrim, f), expr.Const(""))), nil
	case operator.Contains, operator.NotContains, operator.Equals, operator.NotEquals,
		operator.StartsWith, operator.EndsWith:
	default:
		return g.unsupported(l)
	}

	v, err := convert.ToNative(l.info, l.a.Value())
	if err != nil {
		return nil, err
	}
	text := convert.Format(v)
	lhs := f
	if g.folded() {
		lhs = expr.Invoke(expr.MethodFold, f)
		text = cases.Fold().String(text)
	}
	c := expr.Const(text)

	var test expr.Expr
	switch l.op {
	case operator.Contains:
		test = expr.Invoke(expr.MethodContains, lhs, c)
	case operator.NotContains:
		test = expr.Not(expr.Invoke(expr.MethodContains, lhs, c))
	case operator.Equals:
		test = expr.Equal(lhs, c)
	case operator.NotEquals:
		test = expr.NotEqual(lhs, c)
	case operator.StartsWith:
		test = expr.Invoke(expr.MethodStartsWith, lhs, c)
	case operator.EndsWith:
		test = expr.Invoke(expr.MethodEndsWith, lhs, c)
	}
	return expr.AndAlso(expr.IsNotNull(f), test), nil
}

func (g *Generator[T]) number(l leaf[T]) (expr.Expr, error) {
	f := l.field
	switch l.op {
	case operator.Empty:
		return expr.IsNull(f), nil
	case operator.NotEmpty:
		return expr.IsNotNull(f), nil
	}

	cmp, ok := comparisons[l.op]
	if !ok {
		return g.unsupported(l)
	}
	c, err := g.value(l)
	if err != nil {
		return nil, err
	}
	return cmp(f, c), nil
}

var comparisons = map[string]func(l, r expr.Expr) *expr.Binary{
	operator.Equals:             expr.Equal,
	operator.NotEquals:          expr.NotEqual,
	operator.GreaterThan:        expr.GreaterThan,
	operator.GreaterThanOrEqual: expr.GreaterThanOrEqual,
	operator.LessThan:           expr.LessThan,
	operator.LessThanOrEqual:    expr.LessThanOrEqual,
}

func (g *Generator[T]) enum(l leaf[T]) (expr.Expr, error) {
	f := l.field
	if l.op != operator.Is && l.op != operator.IsNot {
		return g.unsupported(l)
	}

	if l.a.Value() == nil {
		// nullable member compared with no value: a nullity test
		if l.op == operator.Is {
			return expr.IsNull(f), nil
		}
		return expr.IsNotNull(f), nil
	}

	c, err := g.value(l)
	if err != nil {
		return nil, err
	}
	if l.op == operator.IsNot {
		return expr.NotEqual(f, c), nil
	}
	if l.info.Nullable {
		return expr.AndAlso(expr.IsNotNull(f), expr.Equal(f, c)), nil
	}
	return expr.Equal(f, c), nil
}

func (g *Generator[T]) boolean(l leaf[T]) (expr.Expr, error) {
	if l.op != operator.Is {
		return g.unsupported(l)
	}
	c, err := g.value(l)
	if err != nil {
		return nil, err
	}
	return expr.Equal(l.field, c), nil
}

var dateComparisons = map[string]func(l, r expr.Expr) *expr.Binary{
	operator.Is:         expr.Equal,
	operator.IsNot:      expr.NotEqual,
	operator.After:      expr.GreaterThan,
	operator.OnOrAfter:  expr.GreaterThanOrEqual,
	operator.Before:     expr.LessThan,
	operator.OnOrBefore: expr.LessThanOrEqual,
}

func (g *Generator[T]) datetime(l leaf[T]) (expr.Expr, error) {
	f := l.field
	if l.info.Nullable {
		switch l.op {
		case operator.Empty:
			return expr.IsNull(f), nil
		case operator.NotEmpty:
			return expr.IsNotNull(f), nil
		}
	}

	cmp, ok := dateComparisons[l.op]
	if !ok {
		return g.unsupported(l)
	}
	c, err := g.value(l)
	if err != nil {
		return nil, err
	}
	return cmp(f, c), nil
}

func (g *Generator[T]) guid(l leaf[T]) (expr.Expr, error) {
	f := l.field
	zero := expr.Const(uuid.Nil)
	switch l.op {
	case operator.Empty:
		return expr.OrElse(expr.IsNull(f), expr.Equal(f, zero)), nil
	case operator.NotEmpty:
		return expr.AndAlso(expr.IsNotNull(f), expr.NotEqual(f, zero)), nil
	case operator.Equals, operator.NotEquals:
	default:
		return g.unsupported(l)
	}

	c, err := g.value(l)
	if err != nil {
		return nil, err
	}
	return comparisons[l.op](f, c), nil
}

func (g *Generator[T]) list(l leaf[T]) (expr.Expr, error) {
	tokens := l.a.MultiSelectValues()
	if len(tokens) == 0 {
		switch v := l.a.Value().(type) {
		case string:
			tokens = convert.SplitList(v)
		case []string:
			tokens = v
		case nil:
		default:
			tokens = convert.SplitList(convert.Format(v))
		}
	}
	if len(tokens) == 0 {
		g.log.Debug("skipping list predicate without candidates", "id", l.a.ID(), "member", l.a.Member())
		return nil, nil
	}

	values, err := convert.List(l.info, tokens)
	if err != nil {
		return nil, err
	}

	operand := l.field
	if l.info.Category == classify.String && g.folded() {
		operand = expr.Invoke(expr.MethodFold, l.field)
		fold := cases.Fold()
		for i, v := range values {
			values[i] = fold.String(convert.Format(v))
		}
	}

	in := expr.In(operand, values)
	if l.op == operator.IsNotOneOf {
		return expr.Not(in), nil
	}
	return in, nil
}
