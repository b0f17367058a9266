package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager 签发与校验 worker token
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = WorkerTokenExpireTime
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// GenerateToken 生成 worker token，返回 token 与过期时间
func (m *TokenManager) GenerateToken(workerID string, platforms []string, region string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := &WorkerClaims{
		WorkerID:  workerID,
		Platforms: platforms,
		Region:    region,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   workerTokenSubjectPrefix + workerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    WorkerTokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func (m *TokenManager) ValidateToken(tokenString string) (*WorkerClaims, error) {
	claims := &WorkerClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(WorkerTokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}

	if !token.Valid || claims.WorkerID == "" {
		return nil, errors.New("token 无效或已过期")
	}
	return claims, nil
}
