package auth

import (
	"github.com/pquerna/otp/totp"
)

const mfaIssuer = "hreval"

// SecretSealer encrypts MFA secrets at rest.
type SecretSealer interface {
	Configured() bool
	EncryptString(value string) ([]byte, error)
	DecryptString(value []byte) (string, error)
}

func generateTOTP(account string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: account,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func validateTOTP(sealer SecretSealer, sealed []byte, code string) (bool, error) {
	if len(sealed) == 0 {
		return false, ErrMFANotSetUp
	}
	secret, err := sealer.DecryptString(sealed)
	if err != nil {
		return false, err
	}
	return totp.Validate(code, secret), nil
}
