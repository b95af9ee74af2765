package auth

// TokenPair is the credential pair issued at login. The refresh token is
// stored but never used.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
