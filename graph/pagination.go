package graph

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	cursorPrefix    = "offset:"
)

type pageInfo struct {
	hasNext, hasPrev bool
	startCursor      *string
	endCursor        *string
}

func (p *pageInfo) HasNextPage() bool     { return p.hasNext }
func (p *pageInfo) HasPreviousPage() bool { return p.hasPrev }
func (p *pageInfo) StartCursor() *string  { return p.startCursor }
func (p *pageInfo) EndCursor() *string    { return p.endCursor }

type edge[T any] struct {
	cursor string
	node   T
}

func (e *edge[T]) Cursor() string { return e.cursor }
func (e *edge[T]) Node() T        { return e.node }

// connection is one page of a filtered list. Cursors are opaque offsets.
type connection[T any] struct {
	edges []*edge[T]
	info  *pageInfo
	total int
}

func (c *connection[T]) Edges() []*edge[T]   { return c.edges }
func (c *connection[T]) PageInfo() *pageInfo { return c.info }
func (c *connection[T]) TotalCount() int32   { return int32(c.total) }

func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(raw), cursorPrefix) {
		return 0, apperr.Validation("invalid cursor %q", cursor)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), cursorPrefix))
	if err != nil || n < 0 {
		return 0, apperr.Validation("invalid cursor %q", cursor)
	}
	return n, nil
}

// paginate slices items after the given cursor and wraps each with wrap.
func paginate[S any, T any](items []S, first *int32, after *string, wrap func(S) T) (*connection[T], error) {
	size := defaultPageSize
	if first != nil {
		if *first < 0 {
			return nil, apperr.Validation("first must not be negative")
		}
		size = min(int(*first), maxPageSize)
	}
	start := 0
	if after != nil {
		n, err := decodeCursor(*after)
		if err != nil {
			return nil, err
		}
		start = n + 1
	}
	start = min(start, len(items))
	end := min(start+size, len(items))

	c := &connection[T]{
		edges: make([]*edge[T], 0, end-start),
		info:  &pageInfo{hasNext: end < len(items), hasPrev: start > 0},
		total: len(items),
	}
	for i := start; i < end; i++ {
		c.edges = append(c.edges, &edge[T]{cursor: encodeCursor(i), node: wrap(items[i])})
	}
	if len(c.edges) > 0 {
		startC, endC := c.edges[0].cursor, c.edges[len(c.edges)-1].cursor
		c.info.startCursor, c.info.endCursor = &startC, &endC
	}
	return c, nil
}
