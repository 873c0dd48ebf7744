// Package guard holds the access predicates evaluated by the presentation
// layer before it opens a screen or runs a command.
package guard

import "github.com/tiendademo/storefront/internal/core/domain"

// Predicate decides whether the given session may proceed. A nil user is an
// anonymous session.
type Predicate func(u *domain.User) bool

// Authenticated allows any logged-in user.
func Authenticated(u *domain.User) bool {
	return u != nil
}

// RequireRole allows logged-in users holding one of roles.
func RequireRole(roles ...domain.Role) Predicate {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(u *domain.User) bool {
		if u == nil {
			return false
		}
		_, ok := allowed[u.Role]
		return ok
	}
}

// Check returns domain.ErrForbidden unless p allows u.
func Check(p Predicate, u *domain.User) error {
	if !p(u) {
		return domain.ErrForbidden
	}
	return nil
}
