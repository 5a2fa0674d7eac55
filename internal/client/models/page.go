package models

import (
	"strconv"
	"strings"
)

// Page is one fetched page of the remote collection. TotalPages is whatever
// the remote reports; it is never computed or clamped locally.
type Page struct {
	Items      []User
	Number     int
	TotalPages int
	PerPage    int
	Total      int
}

// HasPrev reports whether a previous page exists.
func (p *Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a following page exists.
func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// Remove drops the item with the given id from the page, preserving order.
// It reports whether anything was removed.
func (p *Page) Remove(id int) bool {
	for i, u := range p.Items {
		if u.ID == id {
			p.Items = append(p.Items[:i:i], p.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Navigator renders the page selector, e.g. "« 1 [2] 3 »". Unavailable
// directions are shown as "-".
func (p *Page) Navigator() string {
	var b strings.Builder

	if p.HasPrev() {
		b.WriteString("«")
	} else {
		b.WriteString("-")
	}

	for i := 1; i <= p.TotalPages; i++ {
		b.WriteByte(' ')
		if i == p.Number {
			b.WriteString("[" + strconv.Itoa(i) + "]")
		} else {
			b.WriteString(strconv.Itoa(i))
		}
	}

	b.WriteByte(' ')
	if p.HasNext() {
		b.WriteString("»")
	} else {
		b.WriteString("-")
	}
	return b.String()
}
