package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Character classes used for generated passwords. Lookalikes such as
// O/0 and l/1 are left out so a password can be read aloud.
const (
	UpperLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	LowerLetters = "abcdefghijkmnopqrstuvwxyz"
	Digits       = "23456789"
	Symbols      = "!#%+-=?@"
)

var errNoClasses = errors.New("at least one non-empty character class is required")

// GeneratePassword returns a random string of the given length holding at
// least one character from every class. length is raised to the number of
// classes when it is smaller.
func GeneratePassword(length int, classes ...string) (string, error) {
	var pool strings.Builder
	nonEmpty := make([]string, 0, len(classes))
	for _, class := range classes {
		if class == "" {
			continue
		}
		nonEmpty = append(nonEmpty, class)
		pool.WriteString(class)
	}
	if len(nonEmpty) == 0 {
		return "", errNoClasses
	}
	if length < len(nonEmpty) {
		length = len(nonEmpty)
	}

	password := make([]byte, 0, length)
	for _, class := range nonEmpty {
		char, err := pick(class)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}
	all := pool.String()
	for len(password) < length {
		char, err := pick(all)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}

	// The guaranteed characters sit at the front until shuffled.
	for i := len(password) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}
	return string(password), nil
}

func pick(alphabet string) (byte, error) {
	index, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[index], nil
}

func randomIndex(n int) (int, error) {
	value, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(value.Int64()), nil
}
