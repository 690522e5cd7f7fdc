package admin

import "fmt"

// Pager is the pagination state of a list. A total below 1 counts as 1.
type Pager struct {
	Current int
	Total   int
}

func (p Pager) total() int {
	if p.Total < 1 {
		return 1
	}
	return p.Total
}

func (p Pager) current() int {
	if p.Current < 1 {
		return 1
	}
	return p.Current
}

// PrevDisabled reports whether there is no previous page.
func (p Pager) PrevDisabled() bool { return p.current() <= 1 }

// NextDisabled reports whether there is no next page.
func (p Pager) NextDisabled() bool { return p.current() >= p.total() }

// Label renders "Page X of Y".
func (p Pager) Label() string {
	return fmt.Sprintf("Page %d of %d", p.current(), p.total())
}
