// Command vaultctl is a thin CLI over the vault package: encrypt and
// decrypt subcommands wiring file I/O and a no-echo password prompt
// into vault.Encrypt/vault.Decrypt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	vault "github.com/hadescrypt/vaultstream"
	"github.com/hadescrypt/vaultstream/internal/fileutil"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encrypt":
		err = runEncrypt(os.Args[2:])
	case "decrypt":
		err = runDecrypt(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vaultctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vaultctl encrypt -in FILE -out FILE")
	fmt.Fprintln(os.Stderr, "       vaultctl decrypt -in FILE -out FILE")
}

func runEncrypt(args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	in := fs.String("in", "", "plaintext file to encrypt")
	out := fs.String("out", "", "container file to write")
	workers := fs.Int("workers", 0, "pipeline worker count (default: number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("encrypt: -in and -out are required")
	}

	src, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("encrypt: %s is a directory", *in)
	}

	password, err := promptPassword("Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("encrypt: passwords do not match")
	}

	dst, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer dst.Close()

	opts := vaultOptions(*workers)
	start := time.Now()
	err = vault.Encrypt(context.Background(), src, dst, info.Name(), info.Size(), []byte(password), opts...)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("encrypted %s (%s) in %s\n", info.Name(), fileutil.HumanBytes(info.Size()), elapsed.Round(10*time.Millisecond))
	return nil
}

func runDecrypt(args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "container file to decrypt")
	out := fs.String("out", "", "plaintext file to write")
	workers := fs.Int("workers", 0, "pipeline worker count (default: number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("decrypt: -in and -out are required")
	}

	src, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer src.Close()

	password, err := promptPassword("Enter password: ")
	if err != nil {
		return err
	}

	dst, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer dst.Close()

	opts := vaultOptions(*workers)
	start := time.Now()
	metadata, err := vault.Decrypt(context.Background(), src, dst, []byte(password), opts...)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("decrypted %s (%s) in %s\n", metadata.Name, fileutil.HumanBytes(int64(metadata.Size)), elapsed.Round(10*time.Millisecond))
	return nil
}

func vaultOptions(workers int) []vault.Option {
	if workers <= 0 {
		return nil
	}
	return []vault.Option{vault.WithWorkers(workers)}
}

// promptPassword prompts for a password without echoing it, falling
// back to a plain line read when stdin isn't a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		fmt.Println()
		return string(password), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
