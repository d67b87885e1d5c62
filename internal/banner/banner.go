// Package banner prints the console greeting and an optional QR code of the
// site URL.
package banner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mdp/qrterminal/v3"
)

// ErrEmptyURL is returned when a QR code is requested without a URL.
var ErrEmptyURL = errors.New("url is required")

// EasterEgg is printed once at startup.
const EasterEgg = `
    ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░
    ░  ██████╗██╗   ██╗██████╗ ███████╗  ░
    ░ ██╔════╝╚██╗ ██╔╝██╔══██╗██╔════╝  ░
    ░ ██║      ╚████╔╝ ██████╔╝█████╗    ░
    ░ ██║       ╚██╔╝  ██╔══██╗██╔══╝    ░
    ░ ╚██████╗   ██║   ██████╔╝███████╗  ░
    ░  ╚═════╝   ╚═╝   ╚═════╝ ╚══════╝  ░
    ░                                     ░
    ░          CORE SYSTEMS ONLINE        ░
    ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░

    Access Level: Developer
    Status: Authorized
    Welcome to CyberCore Systems...
`

// PrintEasterEgg writes EasterEgg to w.
func PrintEasterEgg(w io.Writer) error {
	if _, err := io.WriteString(w, EasterEgg); err != nil {
		return fmt.Errorf("failed to write easter egg: %w", err)
	}
	return nil
}

// PrintQR renders url as a half-block QR code on w.
func PrintQR(w io.Writer, url string) error {
	if url == "" {
		return ErrEmptyURL
	}
	slog.Debug("banner.PrintQR: rendering QR code", "url", url)
	qrterminal.GenerateHalfBlock(url, qrterminal.L, w)
	return nil
}
