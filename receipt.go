package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	receiptExpiry    = 30 * 24 * time.Hour
	receiptIssuer    = "wakerunner"
	receiptSecretKey = "receipt_secret"
)

var ErrInvalidReceipt = errors.New("invalid receipt")

// ReceiptClaims is what a signed score receipt attests to
type ReceiptClaims struct {
	Name     string  `json:"usr"`
	Score    uint64  `json:"score"`
	Ticks    uint64  `json:"ticks"`
	Duration float64 `json:"dur"`
	Session  string  `json:"sid"`
	RunID    int64   `json:"run,omitempty"`
	jwt.RegisteredClaims
}

// Receipts signs and verifies score receipts
type Receipts struct {
	secret []byte
	now    func() time.Time
}

// NewReceipts loads the signing secret from db (creating it on first use).
// db may be nil, in which case the secret lives only for this process.
func NewReceipts(db *DB) *Receipts {
	return &Receipts{secret: loadOrCreateSecret(db), now: time.Now}
}

// loadOrCreateSecret loads the signing secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting(receiptSecretKey); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate receipt secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting(receiptSecretKey, hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist receipt secret: %v", err)
		}
	}
	return secret
}

// Issue signs a receipt for a finished run
func (r *Receipts) Issue(run RunRecord, runID int64) (string, error) {
	now := r.now()
	claims := ReceiptClaims{
		Name:     run.Name,
		Score:    run.Score,
		Ticks:    run.Ticks,
		Duration: round2(run.Duration),
		Session:  run.SessionID,
		RunID:    runID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    receiptIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(receiptExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return signed, nil
}

// Verify checks a receipt's signature and expiry and returns its claims
func (r *Receipts) Verify(tokenStr string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	},
		jwt.WithIssuer(receiptIssuer),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	if !token.Valid {
		return nil, ErrInvalidReceipt
	}
	return claims, nil
}
