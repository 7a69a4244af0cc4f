package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerTokenType is both the Authorization scheme and the token_type
	// reported by the login endpoint.
	BearerTokenType = "Bearer"

	// AccessTokenValiditySeconds is the fixed lifetime of an issued token (24h).
	AccessTokenValiditySeconds = 86400
)
