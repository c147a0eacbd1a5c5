package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/media"
	"github.com/memberx/deals-api/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MB

// MediaHandler takes listing image uploads, normalizes them to webp and
// stores them in the bucket.
type MediaHandler struct {
	db       *gorm.DB
	uploader *media.Uploader
	maxWidth int
}

func NewMediaHandler(db *gorm.DB, uploader *media.Uploader, cfg *config.Config) *MediaHandler {
	return &MediaHandler{
		db:       db,
		uploader: uploader,
		maxWidth: cfg.MediaMaxWidth,
	}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	listingID, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	listing, ok := scopeListingToVendor(c, h.db, listingID)
	if !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "An image file is required.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Image exceeds the upload limit.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Could not read the upload.")
		return
	}
	defer file.Close()

	payload, err := media.Normalize(file, h.maxWidth)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "File is not a supported image.")
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), listing.ID, payload)
	if err != nil {
		httperr.Internal(c, "failed_to_store_file", "Could not store the image.")
		return
	}

	asset := models.ListingAsset{
		ListingID: listing.ID,
		Type:      "IMAGE",
		URL:       url,
		AltAr:     c.PostForm("alt_ar"),
		AltEn:     c.PostForm("alt_en"),
	}

	var count int64
	h.db.Model(&models.ListingAsset{}).Where("listing_id = ?", listing.ID).Count(&count)
	asset.Order = int(count)

	if err := h.db.Create(&asset).Error; err != nil {
		httperr.Internal(c, "failed_to_save_asset", "Could not save the image record.")
		return
	}

	httpresp.Created(c, asset)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	listingID, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}
	assetID, ok := paramUint(c, "assetId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid asset id.")
		return
	}

	if _, ok := scopeListingToVendor(c, h.db, listingID); !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	// The object stays in the bucket; only the catalog reference goes away.
	res := h.db.Where("id = ? AND listing_id = ?", assetID, listingID).
		Delete(&models.ListingAsset{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_asset", "Could not delete the image.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "asset_not_found", "Image not found.")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}
