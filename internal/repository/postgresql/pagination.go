package postgresql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/database"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
)

// column describes one field callers may filter or order on. Only NOT NULL
// columns are marked orderable so keyset comparisons never meet NULL.
type column struct {
	expr      string
	pgType    string // text, timestamptz, int4, float8, bool, uuid
	orderable bool
}

// keyset renders cursor-paginated SELECTs over one table (or join).
type keyset struct {
	from    string
	selects string
	idExpr  string
	columns map[string]column
}

// prefixed qualifies every name in a comma separated column list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func (c column) compareExpr() string {
	if c.pgType == "text" {
		return c.expr + ` COLLATE "C"`
	}
	return c.expr
}

// accepts reports whether c could have been produced for this column. Keys
// of every keyset are uuids.
func (c column) accepts(cur pagination.Cursor) bool {
	if _, err := uuid.Parse(cur.ID); err != nil {
		return false
	}
	var err error
	switch c.pgType {
	case "timestamptz":
		_, err = time.Parse(time.RFC3339Nano, cur.Value)
	case "int4":
		_, err = strconv.ParseInt(cur.Value, 10, 32)
	case "float8":
		_, err = strconv.ParseFloat(cur.Value, 64)
	case "bool":
		_, err = strconv.ParseBool(cur.Value)
	case "uuid":
		_, err = uuid.Parse(cur.Value)
	}
	return err == nil
}

func sqlOp(op pagination.Op) (string, error) {
	switch op {
	case pagination.OpEq:
		return "=", nil
	case pagination.OpNe:
		return "<>", nil
	case pagination.OpLt, pagination.OpLte, pagination.OpGt, pagination.OpGte:
		return string(op), nil
	}
	return "", fmt.Errorf("%w: %q", pagination.ErrInvalidOperator, op)
}

func (k keyset) where(filters []pagination.Filter, args []any) ([]string, []any, error) {
	var conds []string
	for _, f := range filters {
		col, ok := k.columns[f.Field]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", pagination.ErrUnknownField, f.Field)
		}
		op, err := sqlOp(f.Op)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, f.Value)
		conds = append(conds, fmt.Sprintf("%s %s $%d::%s", col.compareExpr(), op, len(args), col.pgType))
	}
	return conds, args, nil
}

// selectPage builds the query for one pagination.Query. Rows come back
// ordered by (field, id) in the requested direction.
func (k keyset) selectPage(q pagination.Query) (string, []any, error) {
	col, ok := k.columns[q.OrderField]
	if !ok || !col.orderable {
		return "", nil, fmt.Errorf("%w: %s", pagination.ErrUnknownField, q.OrderField)
	}

	conds, args, err := k.where(q.Filters, nil)
	if err != nil {
		return "", nil, err
	}

	forward, backward := ">", "<"
	dir := "ASC"
	if q.Direction == pagination.Desc {
		forward, backward = "<", ">"
		dir = "DESC"
	}

	for _, c := range []*pagination.Cursor{q.After, q.Before} {
		if c != nil && !col.accepts(*c) {
			return "", nil, pagination.ErrInvalidCursor
		}
	}

	cursorCond := func(c *pagination.Cursor, op string) string {
		args = append(args, c.Value, c.ID)
		return fmt.Sprintf("(%s, %s) %s ($%d::text::%s, $%d::uuid)",
			col.compareExpr(), k.idExpr, op, len(args)-1, col.pgType, len(args))
	}
	if q.After != nil {
		conds = append(conds, cursorCond(q.After, forward))
	}
	if q.Before != nil {
		conds = append(conds, cursorCond(q.Before, backward))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", k.selects, k.from)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, %s %s", col.compareExpr(), dir, k.idExpr, dir)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

func (k keyset) selectCount(filters []pagination.Filter) (string, []any, error) {
	conds, args, err := k.where(filters, nil)
	if err != nil {
		return "", nil, err
	}
	query := "SELECT COUNT(*) FROM " + k.from
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query, args, nil
}

func fetchPage[T any](ctx context.Context, q database.Querier, k keyset, pq pagination.Query, scan func(pgx.Row) (T, error)) ([]T, error) {
	query, args, err := k.selectPage(pq)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0, pq.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func countRows(ctx context.Context, q database.Querier, k keyset, filters []pagination.Filter) (int64, error) {
	query, args, err := k.selectCount(filters)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Cursor value encodings; each must parse back through ::text::<type>.

func timeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func intCursor(n int) string {
	return strconv.Itoa(n)
}

func floatCursor(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
