package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize   = 10
	MaxPageSize       = 100
	DefaultOrderField = "created_at"

	// maxUnicodeSuffix closes a prefix range: every string starting with term
	// sorts below term+maxUnicodeSuffix under code point ordering.
	maxUnicodeSuffix = "\U0010FFFF"
)

var (
	ErrInvalidPageSize  = errors.New("page size must be a positive integer")
	ErrInvalidCursor    = errors.New("invalid pagination cursor")
	ErrInvalidDirection = errors.New("direction must be asc or desc")
	ErrInvalidOperator  = errors.New("unsupported filter operator")
	ErrUnknownField     = errors.New("unknown filter or order field")
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Op string

const (
	OpEq  Op = "=="
	OpNe  Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Request describes one page to fetch. After and Before are opaque cursors
// taken from a previous Page.
type Request struct {
	PageSize   int
	OrderField string
	Direction  Direction
	After      string
	Before     string
	Filters    []Filter
}

// Query is what a Source receives: decoded cursors and the row limit.
type Query struct {
	Filters    []Filter
	OrderField string
	Direction  Direction
	After      *Cursor
	Before     *Cursor
	Limit      int
}

type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
	TotalCount *int64 `json:"total_count,omitempty"`
}

// Source is an ordered, filterable collection.
type Source[T any] interface {
	// Fetch returns at most q.Limit rows ordered by (OrderField, id) in
	// q.Direction, strictly after q.After and strictly before q.Before.
	Fetch(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, filters []Filter) (int64, error)
	// CursorOf returns the position of item for the given order field.
	CursorOf(item T, orderField string) Cursor
}

func (r Request) normalize() (Request, error) {
	if r.PageSize <= 0 {
		return r, ErrInvalidPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.OrderField == "" {
		r.OrderField = DefaultOrderField
	}
	switch r.Direction {
	case "":
		r.Direction = Desc
	case Asc, Desc:
	default:
		return r, ErrInvalidDirection
	}
	for _, f := range r.Filters {
		if !f.Op.Valid() {
			return r, fmt.Errorf("%w: %q", ErrInvalidOperator, f.Op)
		}
	}
	return r, nil
}

// Paginate fetches PageSize+1 rows and uses the extra row only to decide
// HasNext. HasPrev reports that a cursor was supplied, not that earlier rows
// exist.
func Paginate[T any](ctx context.Context, src Source[T], req Request) (Page[T], error) {
	req, err := req.normalize()
	if err != nil {
		return Page[T]{}, err
	}

	q := Query{
		Filters:    req.Filters,
		OrderField: req.OrderField,
		Direction:  req.Direction,
		Limit:      req.PageSize + 1,
	}
	if req.After != "" {
		c, err := DecodeCursor(req.After)
		if err != nil {
			return Page[T]{}, err
		}
		q.After = &c
	}
	if req.Before != "" {
		c, err := DecodeCursor(req.Before)
		if err != nil {
			return Page[T]{}, err
		}
		q.Before = &c
	}

	rows, err := src.Fetch(ctx, q)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{
		HasNext: len(rows) > req.PageSize,
		HasPrev: q.After != nil || q.Before != nil,
	}
	if page.HasNext {
		rows = rows[:req.PageSize]
	}
	if rows == nil {
		rows = []T{}
	}
	page.Items = rows

	if page.HasNext {
		page.NextCursor = src.CursorOf(rows[len(rows)-1], req.OrderField).Encode()
	}
	if page.HasPrev && len(rows) > 0 {
		page.PrevCursor = src.CursorOf(rows[0], req.OrderField).Encode()
	}
	return page, nil
}

// TotalCount returns how many rows match filters. Callers on hot paths should
// cache the result.
func TotalCount[T any](ctx context.Context, src Source[T], filters []Filter) (int64, error) {
	for _, f := range filters {
		if !f.Op.Valid() {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOperator, f.Op)
		}
	}
	return src.Count(ctx, filters)
}

// PrefixFilters returns the range filters matching every value of field that
// starts with term.
func PrefixFilters(field, term string) []Filter {
	return []Filter{
		{Field: field, Op: OpGte, Value: term},
		{Field: field, Op: OpLt, Value: term + maxUnicodeSuffix},
	}
}

// Search paginates rows whose field starts with term. Only prefixes match,
// and only under code point collation.
func Search[T any](ctx context.Context, src Source[T], field, term string, req Request) (Page[T], error) {
	filters := make([]Filter, 0, len(req.Filters)+2)
	filters = append(filters, req.Filters...)
	filters = append(filters, PrefixFilters(field, term)...)
	req.Filters = filters
	return Paginate(ctx, src, req)
}

// FromQuery reads page_size, order_by, direction, after and before.
// A missing page_size means DefaultPageSize.
func FromQuery(values url.Values) (Request, error) {
	req := Request{
		PageSize:   DefaultPageSize,
		OrderField: values.Get("order_by"),
		Direction:  Direction(strings.ToLower(values.Get("direction"))),
		After:      values.Get("after"),
		Before:     values.Get("before"),
	}
	if raw := values.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, ErrInvalidPageSize
		}
		req.PageSize = n
	}
	return req.normalize()
}
