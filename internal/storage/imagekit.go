package storage

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrMissingPrivateKey = errors.New("imagekit private key is not configured")

// UploadAuth are the parameters a client uploader sends along with the file.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// ImageKitSigner issues client-side upload credentials for ImageKit.
// signature = hex(HMAC-SHA1(privateKey, token + expire))
type ImageKitSigner struct {
	privateKey string
	publicKey  string
	expiry     time.Duration
	now        func() time.Time
	newToken   func() string
}

func NewImageKitSigner(privateKey, publicKey string, expiry time.Duration) *ImageKitSigner {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &ImageKitSigner{
		privateKey: privateKey,
		publicKey:  publicKey,
		expiry:     expiry,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
}

func (s *ImageKitSigner) PublicKey() string {
	return s.publicKey
}

func (s *ImageKitSigner) Sign() (*UploadAuth, error) {
	if s.privateKey == "" {
		return nil, ErrMissingPrivateKey
	}

	token := s.newToken()
	expire := s.now().Add(s.expiry).Unix()

	mac := hmac.New(sha1.New, []byte(s.privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))

	return &UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}, nil
}
