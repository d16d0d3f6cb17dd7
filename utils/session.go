package utils

import (
	"fmt"
	"time"

	"mindease/config"
	"mindease/models"

	"github.com/golang-jwt/jwt"
)

// SessionFromToken parses the mobile app's bearer token into an explicit
// SessionContext. This is the only place session state enters the process;
// services receive the context as a plain argument.
func SessionFromToken(tokenString string) (*models.SessionContext, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session claims")
	}

	session := &models.SessionContext{
		UserID:      claimString(claims, "sub"),
		Name:        claimString(claims, "name"),
		Email:       claimString(claims, "email"),
		Phone:       claimString(claims, "phone"),
		DeviceToken: claimString(claims, "fcmToken"),
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
