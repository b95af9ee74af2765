package attendance

import "errors"

var (
	ErrBiometricUnavailable = errors.New("Biometrics not available on this device")
	ErrBiometricFailed      = errors.New("Biometric authentication failed")
)
