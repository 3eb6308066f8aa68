package common

const (
	// AuthorizationHeaderName carries "Bearer <token>".
	AuthorizationHeaderName = "Authorization"

	// LegacyTokenHeaderName is the older header some dashboard builds still send.
	LegacyTokenHeaderName = "x-auth-token"

	// TokenQueryParam is accepted only on the websocket upgrade route.
	TokenQueryParam = "token"
)
