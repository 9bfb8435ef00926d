package domain

// Identity is the verified caller extracted from a bearer token. It is never
// persisted; every request verifies its token against the provider anew.
type Identity struct {
	UID    string
	Claims map[string]interface{}
}

// Credentials is an issued bearer token pair as returned by the identity
// provider on a successful login.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
