package authtoken

import "context"

// Static serves a pre-issued access token. Help Scout cannot refresh such a
// token, so InvalidateToken does nothing and a rejected token keeps failing.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) GetToken(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoAccessToken
	}

	return s.token, nil
}

func (s *Static) InvalidateToken() {}
