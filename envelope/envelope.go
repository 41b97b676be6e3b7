// Package envelope implements the on-disk encrypted archive format: a
// human-readable signature line identifying the format, followed by a
// Base64-encoded, password-authenticated-encrypted body. Key derivation
// is PBKDF2, the cipher is AES-256 in CBC mode with a random IV, and the
// body carries an HMAC-SHA256 tag so tampering or a wrong password is
// detected before any history line is trusted.
package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	golog "github.com/ipfs/go-log"
	"golang.org/x/crypto/pbkdf2"

	"github.com/qri-io/vault/vaulterr"
)

var log = golog.Logger("envelope")

const (
	signatureMajor = 2
	signatureMinor = 0

	// MinIterations is the lowest PBKDF2 iteration count Decrypt and
	// Encrypt will accept for key derivation.
	MinIterations = 250000

	saltLen  = 16
	ivLen    = aes.BlockSize
	keyLen   = 32 // AES-256
	hmacLen  = 32 // SHA-256 tag
	derivLen = keyLen + hmacLen
)

func signatureLine() string {
	return fmt.Sprintf("b~>buttercup/a v%d.%d", signatureMajor, signatureMinor)
}

// Encrypt joins lines with "\n", encrypts the result under password, and
// returns the full envelope text: signature line, a newline, then the
// Base64-encoded packed ciphertext. iterations must be >= MinIterations.
func Encrypt(lines []string, password string, iterations int) (string, error) {
	if iterations < MinIterations {
		log.Errorf("refusing to encrypt with %d iterations, below minimum %d", iterations, MinIterations)
		return "", fmt.Errorf("envelope: iterations %d below minimum %d", iterations, MinIterations)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	aesKey, hmacKey := deriveKeys(password, salt, iterations)

	plaintext := []byte(strings.Join(lines, "\n"))
	padded := pkcs7Pad(plaintext, aes.BlockSize)

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return "", err
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	tag := computeHMAC(hmacKey, iv, ciphertext)

	packed := strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(iv),
		strconv.Itoa(iterations),
		hex.EncodeToString(ciphertext),
		hex.EncodeToString(tag),
	}, "$")

	body := base64.StdEncoding.EncodeToString([]byte(packed))
	return signatureLine() + "\n" + body, nil
}

// Decrypt parses an envelope produced by Encrypt and returns its history
// lines. Returns vaulterr.ErrUnrecognizedFormat if the signature line is
// missing or from an incompatible major version, and
// vaulterr.ErrAuthenticationFailure if the password is wrong, the HMAC
// tag doesn't verify, or the packed body is truncated or malformed.
func Decrypt(envelopeText, password string) ([]string, error) {
	nl := strings.IndexByte(envelopeText, '\n')
	if nl < 0 {
		return nil, vaulterr.ErrUnrecognizedFormat
	}
	sig, body := envelopeText[:nl], envelopeText[nl+1:]

	major, _, ok := parseSignature(sig)
	if !ok {
		return nil, vaulterr.ErrUnrecognizedFormat
	}
	if major != signatureMajor {
		return nil, vaulterr.ErrUnrecognizedFormat
	}

	packed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return nil, vaulterr.ErrAuthenticationFailure
	}

	fields := strings.Split(string(packed), "$")
	if len(fields) != 5 {
		return nil, vaulterr.ErrAuthenticationFailure
	}
	salt, err1 := hex.DecodeString(fields[0])
	iv, err2 := hex.DecodeString(fields[1])
	iterations, err3 := strconv.Atoi(fields[2])
	ciphertext, err4 := hex.DecodeString(fields[3])
	tag, err5 := hex.DecodeString(fields[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return nil, vaulterr.ErrAuthenticationFailure
	}
	if len(iv) != ivLen || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, vaulterr.ErrAuthenticationFailure
	}
	if iterations < MinIterations {
		return nil, vaulterr.ErrAuthenticationFailure
	}

	aesKey, hmacKey := deriveKeys(password, salt, iterations)

	wantTag := computeHMAC(hmacKey, iv, ciphertext)
	if subtle.ConstantTimeCompare(tag, wantTag) != 1 {
		log.Debugf("HMAC verification failed, rejecting envelope")
		return nil, vaulterr.ErrAuthenticationFailure
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, vaulterr.ErrAuthenticationFailure
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded)
	if err != nil {
		return nil, vaulterr.ErrAuthenticationFailure
	}

	if len(plaintext) == 0 {
		return nil, nil
	}
	return strings.Split(string(plaintext), "\n"), nil
}

func parseSignature(line string) (major, minor int, ok bool) {
	const prefix = "b~>buttercup/a v"
	if !strings.HasPrefix(line, prefix) {
		return 0, 0, false
	}
	rest := strings.TrimPrefix(line, prefix)
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// deriveKeys stretches password+salt into a single PBKDF2 output and
// splits it into an AES key and an HMAC key, so the two primitives never
// share key material.
func deriveKeys(password string, salt []byte, iterations int) (aesKey, hmacKey []byte) {
	derived := pbkdf2.Key([]byte(password), salt, iterations, derivLen, sha256.New)
	return derived[:keyLen], derived[keyLen:]
}

func computeHMAC(key, iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("envelope: empty plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > aes.BlockSize {
		return nil, fmt.Errorf("envelope: invalid padding")
	}
	padding := data[len(data)-padLen:]
	for _, b := range padding {
		if int(b) != padLen {
			return nil, fmt.Errorf("envelope: invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
