// Package security содержит хеширование и проверку паролей.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	algorithmID = "scrypt"
	saltLength  = 16

	// Верхние границы параметров при разборе чужой PHC-строки.
	maxLogN   = 20
	maxR      = 32
	maxP      = 16
	maxKeyLen = 64
)

// b64 - кодировка PHC: стандартный base64 без паддинга.
var b64 = base64.RawStdEncoding

// ErrMalformedHash возвращается при разборе некорректной PHC-строки.
var ErrMalformedHash = errors.New("некорректный формат хеша пароля")

// Params задает параметры scrypt.
type Params struct {
	LogN   uint8 // log2(N)
	R      int
	P      int
	KeyLen int
}

// DefaultParams возвращает параметры по умолчанию (ln=17, r=8, p=1, 32 байта).
func DefaultParams() Params {
	return Params{LogN: 17, R: 8, P: 1, KeyLen: 32}
}

func (p Params) validate() error {
	if p.LogN == 0 || p.LogN > maxLogN {
		return fmt.Errorf("%w: ln=%d", ErrMalformedHash, p.LogN)
	}
	if p.R <= 0 || p.R > maxR || p.P <= 0 || p.P > maxP {
		return fmt.Errorf("%w: r=%d p=%d", ErrMalformedHash, p.R, p.P)
	}
	if p.KeyLen < 16 || p.KeyLen > maxKeyLen {
		return fmt.Errorf("%w: длина ключа %d", ErrMalformedHash, p.KeyLen)
	}
	return nil
}

// Hasher хеширует пароли scrypt и кодирует результат в формат PHC:
// $scrypt$ln=<n>,r=<r>,p=<p>$<salt>$<hash>.
type Hasher struct {
	params Params
}

// NewHasher создает Hasher с заданными параметрами.
func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: params}, nil
}

// Hash генерирует свежую соль и возвращает PHC-строку для пароля.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}

	key, err := derive(password, salt, h.params)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("$%s$ln=%d,r=%d,p=%d$%s$%s",
		algorithmID, h.params.LogN, h.params.R, h.params.P,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify проверяет пароль по PHC-строке. Параметры и соль берутся из строки,
// поэтому проверка не зависит от параметров самого Hasher.
// Любая ошибка разбора трактуется как несовпадение.
func (h *Hasher) Verify(password, encoded string) bool {
	params, salt, want, err := decode(encoded)
	if err != nil {
		return false
	}

	got, err := derive(password, salt, params)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}

func derive(password string, salt []byte, p Params) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, 1<<p.LogN, p.R, p.P, p.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("ошибка вычисления scrypt: %w", err)
	}
	return key, nil
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var params Params

	// Ожидаем: "", "scrypt", "ln=..,r=..,p=..", "<salt>", "<hash>"
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != algorithmID {
		return params, nil, nil, ErrMalformedHash
	}

	seen := 0
	for _, kv := range strings.Split(parts[2], ",") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return params, nil, nil, ErrMalformedHash
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return params, nil, nil, ErrMalformedHash
		}
		switch name {
		case "ln":
			if n > maxLogN {
				return params, nil, nil, ErrMalformedHash
			}
			params.LogN = uint8(n)
		case "r":
			params.R = n
		case "p":
			params.P = n
		default:
			return params, nil, nil, ErrMalformedHash
		}
		seen++
	}
	if seen != 3 {
		return params, nil, nil, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[3])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, ErrMalformedHash
	}
	params.KeyLen = len(key)

	if err = params.validate(); err != nil {
		return params, nil, nil, err
	}
	return params, salt, key, nil
}
