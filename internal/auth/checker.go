package auth

import "context"

type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}
