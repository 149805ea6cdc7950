package setting

import (
	"net/http"

	"github.com/bengkelhub/bengkel-booking/internal/pkg/apperror"
)

// Keys that may be written through the API.
const (
	KeyShopName     = "shop_name"
	KeyShopAddress  = "shop_address"
	KeyShopPhone    = "shop_phone"
	KeyWorkingHours = "working_hours"
)

var ErrNothingToUpdate = apperror.New(http.StatusBadRequest, "no settings to update")

// UpdateRequest carries the editable shop settings. Nil fields are left as they are.
type UpdateRequest struct {
	ShopName     *string `json:"shop_name" validate:"omitempty,max=255"`
	ShopAddress  *string `json:"shop_address" validate:"omitempty,max=500"`
	ShopPhone    *string `json:"shop_phone" validate:"omitempty,max=30"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=255"`
}

// values flattens the supplied fields into key -> value pairs.
func (r UpdateRequest) values() map[string]string {
	out := map[string]string{}
	for key, v := range map[string]*string{
		KeyShopName:     r.ShopName,
		KeyShopAddress:  r.ShopAddress,
		KeyShopPhone:    r.ShopPhone,
		KeyWorkingHours: r.WorkingHours,
	} {
		if v != nil {
			out[key] = *v
		}
	}
	return out
}
