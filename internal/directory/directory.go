// Package directory resolves issue-tracker logins to verified identities.
package directory

import "strings"

// Person is a verified identity with a display name and contact address.
type Person struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Directory looks up a verified identity by tracker login.
type Directory interface {
	Lookup(login string) (Person, bool)
}

// Static is a fixed, config-backed directory. Lookups are case-insensitive.
type Static struct {
	people map[string]Person
}

// NewStatic builds a directory from login-keyed entries.
func NewStatic(people []Person) *Static {
	m := make(map[string]Person, len(people))
	for _, p := range people {
		m[strings.ToLower(p.Login)] = p
	}
	return &Static{people: m}
}

// Lookup returns the identity for a login, if one is registered.
func (d *Static) Lookup(login string) (Person, bool) {
	p, ok := d.people[strings.ToLower(login)]
	return p, ok
}
