package models

import "strings"

// FilterUsers returns the users whose first name, last name or email contains
// q, compared case-insensitively. Order is preserved; an empty q returns items
// unchanged.
func FilterUsers(items []User, q string) []User {
	if q == "" {
		return items
	}

	needle := strings.ToLower(q)
	out := make([]User, 0, len(items))
	for _, u := range items {
		if strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out
}
