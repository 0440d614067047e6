package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpLength = 6
	otpTTL    = 5 * time.Minute
)

// OTP purposes keep registration and login codes from being swapped.
const (
	OTPPurposeRegister = "register"
	OTPPurposeLogin    = "login"
)

var (
	ErrOTPExpired = errors.New("verification code expired or not requested")
	ErrOTPInvalid = errors.New("invalid verification code")
)

// GenerateOTP returns a zero-padded 6-digit numeric code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %v", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpKey(purpose, email string) string {
	return "otp:" + purpose + ":" + email
}

// StoreOTP hashes the code and stores it under the purpose+email key for
// five minutes. A new code replaces any outstanding one.
func StoreOTP(ctx context.Context, rdb *redis.Client, purpose, email, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash verification code: %v", err)
	}
	if err := rdb.Set(ctx, otpKey(purpose, email), string(hash), otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %v", err)
	}
	return nil
}

// VerifyOTP checks the code against the stored hash. The stored code is
// deleted on success so each code is single-use.
func VerifyOTP(ctx context.Context, rdb *redis.Client, purpose, email, code string) error {
	key := otpKey(purpose, email)
	hash, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrOTPExpired
	}
	if err != nil {
		return fmt.Errorf("failed to load verification code: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrOTPInvalid
	}
	return rdb.Del(ctx, key).Err()
}
