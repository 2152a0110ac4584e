package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/quickbite/backend/internal/database"
	"github.com/shopspring/decimal"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	EmailOrMobile string `json:"emailOrMobile" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

type googleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type sendOTPRequest struct {
	EmailOrMobile string `json:"emailOrMobile" validate:"required"`
}

type verifyOTPRequest struct {
	EmailOrMobile string `json:"emailOrMobile" validate:"required"`
	OTP           string `json:"otp" validate:"required,len=6,numeric"`
}

type resetPasswordRequest struct {
	EmailOrMobile string `json:"emailOrMobile" validate:"required"`
	Password      string `json:"password" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Mobile   *string `json:"mobile"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type addressRequest struct {
	HouseBlockNo string `json:"house_block_no" validate:"required"`
	AreaRoad     string `json:"area_road" validate:"required"`
	City         string `json:"city" validate:"required"`
	District     string `json:"district"`
	State        string `json:"state" validate:"required"`
	Country      string `json:"country" validate:"required"`
	Pincode      string `json:"pincode" validate:"required"`
}

type cartLineDTO struct {
	ItemCode string `json:"item_code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type cartTotalsRequest struct {
	Lines      []cartLineDTO `json:"lines" validate:"required,min=1,dive"`
	CouponCode string        `json:"coupon_code"`
}

type submitOrderRequest struct {
	CartItems      []cartLineDTO   `json:"cartItems" validate:"required,min=1,dive"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Taxes          decimal.Decimal `json:"taxes"`
}

type categoryRequest struct {
	Name     string `json:"name" validate:"required"`
	ImageURL string `json:"catimage_url"`
}

type foodItemRequest struct {
	ItemCode    string          `json:"item_code" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	CategoryID  int64           `json:"category_id" validate:"required"`
}

// bind decodes the JSON body into dst and runs struct validation. Every
// failure surfaces as ValidationError so handlers map it to one status.
func (h *Handlers) bind(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", database.ErrValidation)
	}
	if err := h.validate.Struct(dst); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return err
		}
		return fmt.Errorf("%s: %w", err.Error(), database.ErrValidation)
	}
	return nil
}
