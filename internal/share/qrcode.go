package share

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrInvalidRestaurantID = errors.New("invalid restaurant id")

type QRGenerator interface {
	Generate(restaurantID int) ([]byte, error)
}

// DefaultQRGenerator renders PNG codes that open the restaurant page.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) Link(restaurantID int) string {
	return fmt.Sprintf("%s/restaurants/%d", strings.TrimRight(g.BaseURL, "/"), restaurantID)
}

func (g DefaultQRGenerator) Generate(restaurantID int) ([]byte, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(g.Link(restaurantID), qrcode.Medium, size)
}

var _ QRGenerator = DefaultQRGenerator{}
