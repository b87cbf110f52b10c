// Package whatsapp builds click-to-chat links that open a chat with the
// shop and the order summary pre-filled.
package whatsapp

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/niksmo/shop-pos/internal/core/port"
)

var _ port.ShareLinker = (*LinkBuilder)(nil)

const (
	DefaultBaseURL = "https://wa.me/"

	localNumberLen = 10
)

type LinkBuilder struct {
	baseURL     string
	countryCode string
}

// NewLinkBuilder returns a builder for baseURL. countryCode is prefixed to
// local ten digit numbers.
func NewLinkBuilder(baseURL, countryCode string) LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return LinkBuilder{
		baseURL:     baseURL,
		countryCode: digits(countryCode),
	}
}

// ShareLink returns the chat link for phone with message as text. Without
// a usable phone the link opens the contact picker.
func (b LinkBuilder) ShareLink(phone, message string) string {
	number := digits(phone)
	if len(number) == localNumberLen {
		number = b.countryCode + number
	}
	return b.baseURL + number + "?text=" + url.QueryEscape(message)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
