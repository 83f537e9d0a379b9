package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/cardmart-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix          = "Bearer "
	refreshTTLMultiplier  = 3
	defaultAccessTTLHours = 1
	defaultIssuer         = "cardmart"
)

// TokenClaims 令牌声明：sub 为用户邮箱，roles 为权限集合；仅访问令牌携带 iss
type TokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	TokenType        string    `json:"tokenType"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenService 基于 HS256 的无状态令牌服务
type TokenService struct {
	secret    string
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = defaultAccessTTLHours
	}
	// 签发者为空时刷新令牌与访问令牌无法区分
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &TokenService{
		secret:    cfg.SecretKey,
		issuer:    issuer,
		accessTTL: time.Duration(hours) * time.Hour,
		now:       time.Now,
	}
}

// AccessTTL 访问令牌有效期
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL 刷新令牌有效期
func (s *TokenService) RefreshTTL() time.Duration {
	return s.accessTTL * refreshTTLMultiplier
}

// signingKey 签名密钥为 base64(secret) 的字节
func (s *TokenService) signingKey() ([]byte, error) {
	if s == nil || s.secret == "" {
		return nil, ErrTokenCreation
	}
	return []byte(base64.StdEncoding.EncodeToString([]byte(s.secret))), nil
}

// IssueTokenPair 签发令牌对
func (s *TokenService) IssueTokenPair(subject string, roles []string) (*TokenPair, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	issuedAt := s.now().Truncate(time.Second)
	accessExpiresAt := issuedAt.Add(s.AccessTTL())
	refreshExpiresAt := issuedAt.Add(s.RefreshTTL())

	access, err := sign(key, TokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
		},
	})
	if err != nil {
		return nil, err
	}
	refresh, err := sign(key, TokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        strings.TrimSpace(bearerPrefix),
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func sign(key []byte, claims TokenClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", ErrTokenCreation
	}
	return token, nil
}

// Refresh 校验刷新令牌并重新签发令牌对
func (s *TokenService) Refresh(raw string) (*TokenPair, error) {
	claims, err := s.parse(StripBearer(raw))
	if err != nil {
		return nil, err
	}
	return s.IssueTokenPair(claims.Subject, claims.Roles)
}

// Validate 令牌是否有效，任何错误都视为无效
func (s *TokenService) Validate(raw string) bool {
	_, err := s.parse(StripBearer(raw))
	return err == nil
}

// ParseAccessToken 解析访问令牌，额外要求签发者匹配，刷新令牌因此无法当作访问令牌使用
func (s *TokenService) ParseAccessToken(raw string) (*TokenClaims, error) {
	return s.parse(StripBearer(raw), jwt.WithIssuer(s.issuer))
}

func (s *TokenService) parse(raw string, extra ...jwt.ParserOption) (*TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedRequestToken
	}
	key, err := s.signingKey()
	if err != nil {
		return nil, ErrInvalidToken
	}
	options := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}, extra...)

	claims := &TokenClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrMalformedRequestToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StripBearer 去掉可选的 Bearer 前缀
func StripBearer(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= len(bearerPrefix) && strings.EqualFold(trimmed[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(trimmed[len(bearerPrefix):])
	}
	return trimmed
}
