// Package shortlink derives compact URL-safe tokens from recipe ids and back.
package shortlink

import (
	"errors"
	"fmt"

	"github.com/sqids/sqids-go"
)

// ErrInvalidToken is returned for tokens that no id encodes to.
var ErrInvalidToken = errors.New("shortlink: invalid token")

// Codec is an injective, reversible mapping between ids and tokens.
type Codec struct {
	s *sqids.Sqids
}

// New builds a codec. An empty alphabet keeps the sqids default.
func New(alphabet string, minLength int) (*Codec, error) {
	if minLength < 0 || minLength > 255 {
		return nil, fmt.Errorf("shortlink: min length out of range: %d", minLength)
	}
	opts := sqids.Options{MinLength: uint8(minLength)}
	if alphabet != "" {
		opts.Alphabet = alphabet
	}
	s, err := sqids.New(opts)
	if err != nil {
		return nil, fmt.Errorf("shortlink: %w", err)
	}
	return &Codec{s: s}, nil
}

// Encode returns the token for id.
func (c *Codec) Encode(id uint) (string, error) {
	token, err := c.s.Encode([]uint64{uint64(id)})
	if err != nil {
		return "", fmt.Errorf("shortlink: encode %d: %w", id, err)
	}
	return token, nil
}

// Decode returns the id for token. Only the canonical token of an id decodes.
func (c *Codec) Decode(token string) (uint, error) {
	numbers := c.s.Decode(token)
	if len(numbers) != 1 {
		return 0, ErrInvalidToken
	}
	id := uint(numbers[0])
	canonical, err := c.Encode(id)
	if err != nil || canonical != token {
		return 0, ErrInvalidToken
	}
	return id, nil
}
