package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// sealVersion prefixes every sealed blob so the layout can change later
	sealVersion byte = 1

	saltLength = 16
	keyLength  = 32 // AES-256
)

var (
	ErrDecryptionFailed   = errors.New("decryption failed")
	ErrSealedTooShort     = errors.New("sealed data is too short")
	ErrUnsupportedVersion = errors.New("unsupported sealed data version")
)

// KeyParams are the Argon2id cost parameters
type KeyParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKeyParams follows the RFC 9106 second recommended option
var DefaultKeyParams = KeyParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}

// Sealer encrypts attachment bytes under a passphrase. Each blob gets its own
// salt, so two uploads of the same file never share a key or ciphertext.
type Sealer struct {
	passphrase []byte
	params     KeyParams
}

func NewSealer(passphrase string, params KeyParams) *Sealer {
	return &Sealer{passphrase: []byte(passphrase), params: params}
}

func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(s.passphrase, salt, s.params.Time, s.params.MemoryKiB, s.params.Threads, keyLength)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal returns version || salt || nonce || ciphertext
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	header := make([]byte, 0, 1+saltLength+len(nonce))
	header = append(header, sealVersion)
	header = append(header, salt...)
	header = append(header, nonce...)
	// the header is authenticated along with the ciphertext
	ciphertext := gcm.Seal(nil, nonce, plain, header)
	return append(header, ciphertext...), nil
}

// Open reverses Seal. A wrong passphrase or tampered blob gives ErrDecryptionFailed.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < 1+saltLength {
		return nil, ErrSealedTooShort
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sealed[0])
	}
	salt := sealed[1 : 1+saltLength]
	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	headerLen := 1 + saltLength + gcm.NonceSize()
	if len(sealed) < headerLen+gcm.Overhead() {
		return nil, ErrSealedTooShort
	}
	header := sealed[:headerLen]
	nonce := sealed[1+saltLength : headerLen]
	plain, err := gcm.Open(nil, nonce, sealed[headerLen:], header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plain, nil
}
