package query

import (
	"context"
	"fmt"
	"strings"
)

type UserStore interface {
	GetIDByEmail(ctx context.Context, email string) (int, error)
}

// IdentityResolver turns the trusted identity token into the value bound to
// user_id predicates. A token containing "@" is looked up as an email when
// email lookup is enabled; any other token is used verbatim as the id.
type IdentityResolver struct {
	users              UserStore
	emailLookupEnabled bool
}

func NewIdentityResolver(users UserStore, emailLookupEnabled bool) *IdentityResolver {
	return &IdentityResolver{
		users:              users,
		emailLookupEnabled: emailLookupEnabled,
	}
}

func (r *IdentityResolver) Resolve(ctx context.Context, token string) (any, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingIdentity
	}

	if r.emailLookupEnabled && strings.Contains(token, "@") {
		id, err := r.users.GetIDByEmail(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("resolve identity email: %w", err)
		}
		return id, nil
	}

	return token, nil
}
