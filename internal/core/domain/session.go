package domain

// TokenPair is the access/refresh credential pair issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User *PublicUser `json:"user"`
	TokenPair
}
