package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/qsfilter/internal/predicate"
	"github.com/roach88/qsfilter/internal/value"
)

// ErrUnsupported is wrapped when a spec holds a kind or direction the
// compiler cannot render.
var ErrUnsupported = errors.New("unsupported filter")

// likeEscape is the ESCAPE character for LIKE patterns.
const likeEscape = `\`

// Compiler compiles a predicate.Spec to parameterized SQL.
//
// CRITICAL: All values are parameterized (never interpolated).
// Pagination bounds are integers produced by the parser and are rendered
// inline.
type Compiler struct {
	Dialect Dialect

	// Tiebreak, when set, is appended to every ORDER BY of Compile so that
	// paginated results are deterministic. It is skipped when the spec
	// already sorts by it.
	Tiebreak string
}

// NewCompiler creates a Compiler for d.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d}
}

// Compile renders a SELECT of columns from table filtered, sorted and
// paginated by spec. No columns selects "*".
// Returns (sql, params, error) tuple.
func (c *Compiler) Compile(table string, columns []string, spec *predicate.Spec) (string, []any, error) {
	if spec == nil {
		return "", nil, fmt.Errorf("cannot compile nil spec")
	}
	if table == "" {
		return "", nil, fmt.Errorf("table name is required")
	}

	where, params, err := c.CompileWhere(spec)
	if err != nil {
		return "", nil, err
	}

	orderBy, err := c.compileOrder(spec.Order)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s%s",
		compileColumns(columns),
		QuoteIdentifier(table),
		whereClause(where),
		orderBy,
		c.Dialect.limitOffset(spec.Limit, spec.Offset))

	return sql, params, nil
}

// CompileCount renders a COUNT(*) over the rows spec selects, ignoring
// order and pagination.
func (c *Compiler) CompileCount(table string, spec *predicate.Spec) (string, []any, error) {
	if spec == nil {
		return "", nil, fmt.Errorf("cannot compile nil spec")
	}
	if table == "" {
		return "", nil, fmt.Errorf("table name is required")
	}

	where, params, err := c.CompileWhere(spec)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", QuoteIdentifier(table), whereClause(where)), params, nil
}

// CompileWhere renders the conjunction of spec's predicates without the
// WHERE keyword. An empty spec yields "".
func (c *Compiler) CompileWhere(spec *predicate.Spec) (string, []any, error) {
	var parts []string
	var params []any

	for field, pred := range spec.Predicates.All() {
		sql, predParams, err := c.compilePredicate(field, pred)
		if err != nil {
			return "", nil, fmt.Errorf("compile %q: %w", field, err)
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}

	return strings.Join(parts, " AND "), params, nil
}

func whereClause(where string) string {
	if where == "" {
		return ""
	}
	return " WHERE " + where
}

func compileColumns(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = QuoteIdentifier(col)
	}
	return strings.Join(quoted, ", ")
}

func (c *Compiler) compileOrder(order []predicate.Order) (string, error) {
	var parts []string
	sawTiebreak := false
	for _, o := range order {
		if o.Direction != predicate.Asc && o.Direction != predicate.Desc {
			return "", fmt.Errorf("%w: sort direction %q for %q", ErrUnsupported, o.Direction, o.Field)
		}
		if o.Field == c.Tiebreak {
			sawTiebreak = true
		}
		parts = append(parts, QuoteIdentifier(o.Field)+" "+string(o.Direction))
	}
	if c.Tiebreak != "" && !sawTiebreak {
		parts = append(parts, QuoteIdentifier(c.Tiebreak)+" ASC")
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// compilePredicate compiles one field's predicate to a WHERE fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *Compiler) compilePredicate(field string, p predicate.Predicate) (string, []any, error) {
	col := QuoteIdentifier(field)
	if p.DateOnly {
		col = c.Dialect.dateOf(col)
	}

	switch p.Kind {
	case predicate.IsNull:
		return col + " IS NULL", nil, nil
	case predicate.IsNotNull:
		return col + " IS NOT NULL", nil, nil
	case predicate.Eq:
		if isNull(p.Value) {
			return col + " IS NULL", nil, nil
		}
		return col + " = ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.Ne:
		if isNull(p.Value) {
			return col + " IS NOT NULL", nil, nil
		}
		return col + " <> ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.Gt:
		return col + " > ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.Gte:
		return col + " >= ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.Lt:
		return col + " < ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.Lte:
		return col + " <= ?", []any{c.Dialect.param(p.Value)}, nil
	case predicate.StartsWith, predicate.EndsWith, predicate.Contains:
		return c.compileLike(col, p)
	case predicate.Between:
		return c.compileBetween(col, p)
	case predicate.In, predicate.NotIn:
		return c.compileSet(col, p)
	default:
		return "", nil, fmt.Errorf("%w: predicate kind %q", ErrUnsupported, p.Kind)
	}
}

func (c *Compiler) compileLike(col string, p predicate.Predicate) (string, []any, error) {
	text := escapeLike(textOf(p.Value))
	var pattern string
	switch p.Kind {
	case predicate.StartsWith:
		pattern = text + "%"
	case predicate.EndsWith:
		pattern = "%" + text
	default:
		pattern = "%" + text + "%"
	}
	sql := fmt.Sprintf("%s %s ? ESCAPE '%s'", c.Dialect.textOf(col), c.Dialect.like(), likeEscape)
	return sql, []any{pattern}, nil
}

// compileBetween treats a Null bound as unbounded on that side.
func (c *Compiler) compileBetween(col string, p predicate.Predicate) (string, []any, error) {
	if len(p.Values) != 2 {
		return "", nil, fmt.Errorf("%w: between needs 2 bounds, got %d", ErrUnsupported, len(p.Values))
	}
	lo, hi := p.Values[0], p.Values[1]
	switch {
	case isNull(lo) && isNull(hi):
		return "1 = 1", nil, nil
	case isNull(lo):
		return col + " <= ?", []any{c.Dialect.param(hi)}, nil
	case isNull(hi):
		return col + " >= ?", []any{c.Dialect.param(lo)}, nil
	default:
		return col + " BETWEEN ? AND ?", []any{c.Dialect.param(lo), c.Dialect.param(hi)}, nil
	}
}

// compileSet renders IN / NOT IN. An empty set matches nothing for In and
// everything for NotIn.
func (c *Compiler) compileSet(col string, p predicate.Predicate) (string, []any, error) {
	if len(p.Values) == 0 {
		if p.Kind == predicate.In {
			return "1 = 0", nil, nil
		}
		return "1 = 1", nil, nil
	}

	placeholders := make([]string, len(p.Values))
	params := make([]any, len(p.Values))
	for i, v := range p.Values {
		placeholders[i] = "?"
		params[i] = c.Dialect.param(v)
	}

	op := "IN"
	if p.Kind == predicate.NotIn {
		op = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")), params, nil
}

func isNull(v value.Value) bool {
	switch v.(type) {
	case nil, value.Null:
		return true
	}
	return false
}

// textOf returns the raw text of a string-match operand.
func textOf(v value.Value) string {
	if isNull(v) {
		return ""
	}
	return v.String()
}

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// escapeLike escapes LIKE metacharacters so s matches literally.
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
