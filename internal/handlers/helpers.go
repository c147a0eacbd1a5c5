package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
)

const dateLayout = "2006-01-02"

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// pagination reads ?page and ?limit with sane bounds.
func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return (page - 1) * limit, limit
}

// scopeListingToVendor loads a listing and verifies the caller may touch it:
// partners only reach their own vendor's listings, staff roles reach all.
func scopeListingToVendor(c *gin.Context, db *gorm.DB, listingID uint) (*models.Listing, bool) {
	var listing models.Listing
	if err := db.First(&listing, listingID).Error; err != nil {
		return nil, false
	}

	if vendorID, ok := middleware.VendorID(c); ok && listing.VendorID != vendorID {
		return nil, false
	}

	return &listing, true
}

const orderNumberDigits = 6

// newOrderNumber builds a human-readable order number like ORD-20260901-482913.
func newOrderNumber() string {
	max := big.NewInt(1)
	for i := 0; i < orderNumberDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}

	return fmt.Sprintf("ORD-%s-%0*d",
		time.Now().UTC().Format("20060102"), orderNumberDigits, n)
}
