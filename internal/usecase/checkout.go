package usecase

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/example/tarana-storefront/internal/codec"
	"github.com/example/tarana-storefront/internal/domain"
)

// ErrEmptyCart: checkout is only reachable with at least one line.
var ErrEmptyCart = errors.New("cart is empty")

const whatsAppBaseURL = "https://wa.me/"

var pricePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatPrice renders an INR amount with grouping and at most two fraction
// digits. Anything that is not a finite non-negative number shows as zero.
func FormatPrice(p float64) string {
	return "₹" + pricePrinter.Sprintf("%v", number.Decimal(codec.SafePrice(p), number.MaxFractionDigits(2)))
}

// Checkout builds the WhatsApp order inquiry from a cart snapshot. It only
// reads the snapshot.
type Checkout struct {
	Brand string
	Phone string // country code and number, digits only
}

func (c Checkout) Message(s domain.Snapshot) (string, error) {
	if s.CartCount == 0 || len(s.Cart) == 0 {
		return "", ErrEmptyCart
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Order Inquiry*\n\n", c.Brand)
	b.WriteString("I am interested in the following pieces:\n")
	for i, it := range s.Cart {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (%s) - %s", i+1, it.Name, it.Material, FormatPrice(it.Price))
	}
	fmt.Fprintf(&b, "\n\n*Total Estimate: %s*\n\n", FormatPrice(s.CartTotal))
	b.WriteString("Please confirm availability and shipping timelines.")
	return b.String(), nil
}

// Link returns the deep link that opens a chat with the message pre-filled.
func (c Checkout) Link(s domain.Snapshot) (string, error) {
	_, link, err := c.Handoff(s)
	return link, err
}

// Handoff builds the message once and returns it with its deep link.
func (c Checkout) Handoff(s domain.Snapshot) (msg, link string, err error) {
	msg, err = c.Message(s)
	if err != nil {
		return "", "", err
	}
	return msg, c.link(msg), nil
}

func (c Checkout) link(msg string) string {
	return whatsAppBaseURL + url.PathEscape(c.Phone) + "?text=" + encodeURIComponent(msg)
}

// QueryEscape turns spaces into '+'; the messaging link expects %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
