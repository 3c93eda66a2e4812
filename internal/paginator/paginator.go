// Package paginator splits a counted result set into fixed-size pages
// addressed by the ?page= query value.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// PerPage is the feed page size.
const PerPage = 10

// ErrInvalidPage means the requested page number is malformed or out of range.
var ErrInvalidPage = errors.New("invalid page")

type Paginator struct {
	Count   int
	PerPage int
}

func New(count, perPage int) Paginator {
	if perPage <= 0 {
		perPage = PerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is never below one: an empty set still has an empty first page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page resolves raw into a page. "" means the first page and "last" the last
// one; anything else must be an integer within [1, NumPages].
func (p Paginator) Page(raw string) (Page, error) {
	raw = strings.TrimSpace(raw)

	number := 1
	switch raw {
	case "":
	case "last":
		number = p.NumPages()
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, ErrInvalidPage
		}
		number = n
	}

	if number < 1 || number > p.NumPages() {
		return Page{}, ErrInvalidPage
	}

	return Page{Number: number, NumPages: p.NumPages(), Count: p.Count, PerPage: p.PerPage}, nil
}

// Page is one window of a paginated set.
type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

func (pg Page) Limit() int {
	return pg.PerPage
}

func (pg Page) HasPrevious() bool {
	return pg.Number > 1
}

func (pg Page) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg Page) PreviousNumber() int {
	return pg.Number - 1
}

func (pg Page) NextNumber() int {
	return pg.Number + 1
}

// Numbers lists every page number, for rendering page links.
func (pg Page) Numbers() []int {
	numbers := make([]int, pg.NumPages)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}
