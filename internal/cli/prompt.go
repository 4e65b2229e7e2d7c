package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errPasswordMismatch = errors.New("passwords do not match")

// promptNewPassword asks for a password twice. Echo is turned off when
// stdin is a terminal; piped input is read as plain lines. An empty first
// answer skips the confirmation and returns "".
func promptNewPassword(stdin *os.File, out io.Writer) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}
	if restore, err := disableEcho(stdin); err == nil {
		defer restore()
	}
	return askPasswordTwice(bufio.NewReader(stdin), out)
}

func askPasswordTwice(reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "New password (leave empty to generate one): ")
	first, err := readSecretLine(reader)
	fmt.Fprintln(out)
	if err != nil || first == "" {
		return "", err
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readSecretLine(reader)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

func readSecretLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
