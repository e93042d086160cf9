package persistence

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Lock errors.
var (
	ErrInvalidRounds      = errors.New("bcrypt rounds must be between 10 and 20")
	ErrPassphraseTooShort = errors.New("passphrase is too short")
	ErrPassphraseRequired = errors.New("passphrase is required")
	ErrHashFailed         = errors.New("failed to hash passphrase")
)

// minPassphraseLength is the shortest checkpoint passphrase accepted;
// unlike a user-facing password, there is no character-class policy,
// since this guards a local file rather than an account.
const minPassphraseLength = 8

// CheckpointLockConfig configures a CheckpointLock.
type CheckpointLockConfig struct {
	// Rounds is the bcrypt cost factor (10-20, default 12).
	Rounds int
}

// DefaultCheckpointLockConfig returns the default configuration.
func DefaultCheckpointLockConfig() CheckpointLockConfig {
	return CheckpointLockConfig{Rounds: 12}
}

// CheckpointLock hashes and verifies the optional passphrase that
// guards a `.wf` checkpoint, adapted from the teacher's password hasher
// (same bcrypt-backed hash/verify shape, repurposed from user accounts
// to protecting a local checkpoint file).
type CheckpointLock struct {
	config CheckpointLockConfig
}

// NewCheckpointLock builds a CheckpointLock.
func NewCheckpointLock(config CheckpointLockConfig) (*CheckpointLock, error) {
	if config.Rounds < 10 || config.Rounds > 20 {
		return nil, ErrInvalidRounds
	}
	return &CheckpointLock{config: config}, nil
}

// NewDefaultCheckpointLock builds a CheckpointLock with default config.
func NewDefaultCheckpointLock() *CheckpointLock {
	lock, _ := NewCheckpointLock(DefaultCheckpointLockConfig())
	return lock
}

// Hash hashes a passphrase, rejecting empty or too-short input.
func (l *CheckpointLock) Hash(passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrPassphraseRequired
	}
	if len(passphrase) < minPassphraseLength {
		return "", fmt.Errorf("%w: minimum %d characters", ErrPassphraseTooShort, minPassphraseLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), l.config.Rounds)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(hash), nil
}

// Verify reports whether passphrase matches hash.
func (l *CheckpointLock) Verify(passphrase, hash string) bool {
	if passphrase == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)) == nil
}
