package pack

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

// ManifestPath is where the manifest is stored inside the pack.
const ManifestPath = "dpc.manifest.json"

var (
	ErrDigestMismatch   = errors.New("manifest digest mismatch")
	ErrInvalidSignature = errors.New("invalid manifest signature")
)

type Entry struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Digest string `json:"blake2b"`
}

// Manifest records a BLAKE2b-256 digest for every file of a pack, and one
// digest over all of them.
type Manifest struct {
	Namespace string  `json:"namespace"`
	Digest    string  `json:"digest"`
	Files     []Entry `json:"files"`
	Signature string  `json:"signature,omitempty"`
}

func NewManifest(namespace string, files []datapack.File) *Manifest {
	m := &Manifest{Namespace: namespace, Files: make([]Entry, 0, len(files))}
	for _, f := range files {
		sum := blake2b.Sum256(f.Content)
		m.Files = append(m.Files, Entry{Path: f.Path, Size: len(f.Content), Digest: hex.EncodeToString(sum[:])})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	m.Digest = packDigest(m.Files)
	return m
}

func packDigest(entries []Entry) string {
	h, _ := blake2b.New256(nil)
	for _, e := range entries {
		fmt.Fprintf(h, "%s\x00%s\n", e.Path, e.Digest)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Check recomputes the digests of files and compares them with m.
func (m *Manifest) Check(files []datapack.File) error {
	fresh := NewManifest(m.Namespace, files)
	if fresh.Digest != m.Digest || packDigest(m.Files) != m.Digest {
		return ErrDigestMismatch
	}
	return nil
}

// Sign stores an HS256 token over the namespace and pack digest in the
// manifest and returns it. A zero ttl means the token does not expire.
func (m *Manifest) Sign(key []byte, ttl time.Duration) (string, error) {
	if len(key) == 0 {
		return "", errors.New("signing key is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"namespace": m.Namespace,
		"digest":    m.Digest,
		"files":     len(m.Files),
		"iat":       now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing manifest: %w", err)
	}
	m.Signature = signed
	return signed, nil
}

// Verify checks that the manifest's signature was made with key and covers
// its current digest.
func (m *Manifest) Verify(key []byte) error {
	claims, err := VerifyToken(m.Signature, key)
	if err != nil {
		return err
	}
	if claims["digest"] != m.Digest || claims["namespace"] != m.Namespace {
		return fmt.Errorf("%w: claims do not match manifest", ErrInvalidSignature)
	}
	return nil
}

// VerifyToken parses a manifest token and returns its claims.
func VerifyToken(tokenString string, key []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidSignature
}

// File renders the manifest as a pack entry.
func (m *Manifest) File() (datapack.File, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return datapack.File{}, fmt.Errorf("serializing manifest: %w", err)
	}
	return datapack.File{Path: ManifestPath, Content: buf.Bytes()}, nil
}

// ReadManifest decodes a manifest produced by File.
func ReadManifest(content []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return &m, nil
}
