package tokens

import (
	"github.com/golang-jwt/jwt/v5"
)

func (m *Manager) VerifyAccess(token string) (int64, error) {
	return m.verify(token, KindAccess, m.accessSecret)
}

func (m *Manager) VerifyRefresh(token string) (int64, error) {
	return m.verify(token, KindRefresh, m.refreshSecret)
}

// verify accepts the token only while now < exp.
func (m *Manager) verify(token string, kind Kind, secret []byte) (int64, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Kind != kind || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
