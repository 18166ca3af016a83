package domain

// Account pairs a User with its optional Credential.
type Account struct {
	User       User
	Credential *Credential
}
