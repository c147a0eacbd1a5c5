package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
	"github.com/memberx/deals-api/internal/rbac"
	"github.com/memberx/deals-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterPartnerRequest struct {
	VendorNameAr  string `json:"vendor_name_ar" binding:"required"`
	VendorNameEn  string `json:"vendor_name_en" binding:"required"`
	VendorSlug    string `json:"vendor_slug" binding:"required"`
	VendorPhone   string `json:"vendor_phone"`
	VendorAddress string `json:"vendor_address"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// RegisterPartner creates a vendor and its managing PARTNER account in one
// call; this is the partner-portal signup.
func (h *AuthHandler) RegisterPartner(c *gin.Context) {
	var req RegisterPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid registration data.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.VendorSlug))

	var count int64
	h.db.Model(&models.Vendor{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "slug_already_exists", "Vendor slug already taken.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Registration failed.")
		return
	}

	vendor := models.Vendor{
		Slug:    slug,
		NameAr:  req.VendorNameAr,
		NameEn:  req.VendorNameEn,
		Phone:   req.VendorPhone,
		Address: req.VendorAddress,
		Email:   email,
	}

	if err := h.db.Create(&vendor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_vendor", "Registration failed.")
		return
	}

	user := models.User{
		VendorID:     &vendor.ID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         string(rbac.RolePartner),
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Registration failed.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Registration failed.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"role":      user.Role,
				"vendor_id": user.VendorID,
			},
			"vendor": vendor,
			"token":  token,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid login data.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Login failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"role":      user.Role,
				"vendor_id": user.VendorID,
			},
			"token": token,
		},
	})
}

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if user.VendorID != nil {
		claims["vendorId"] = float64(*user.VendorID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
