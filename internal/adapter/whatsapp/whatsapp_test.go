package whatsapp_test

import (
	"testing"

	"github.com/niksmo/shop-pos/internal/adapter/whatsapp"
	"github.com/stretchr/testify/assert"
)

func TestShareLink(t *testing.T) {
	b := whatsapp.NewLinkBuilder("", "+91")

	tests := []struct {
		name    string
		phone   string
		message string
		want    string
	}{
		{
			"LocalNumber",
			"98765 43210", "Total: 80.00",
			"https://wa.me/919876543210?text=Total%3A+80.00",
		},
		{
			"FullNumber",
			"+44 7700 900123", "hi",
			"https://wa.me/447700900123?text=hi",
		},
		{
			"NoPhone",
			"", "Bill: A\nTotal: 1",
			"https://wa.me/?text=Bill%3A+A%0ATotal%3A+1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.ShareLink(tt.phone, tt.message))
		})
	}

	t.Run("CustomBaseURL", func(t *testing.T) {
		b := whatsapp.NewLinkBuilder("https://api.whatsapp.com/send", "")
		assert.Equal(t,
			"https://api.whatsapp.com/send/9876543210?text=x",
			b.ShareLink("9876543210", "x"),
		)
	})
}
