package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartIdHeader = "X-Cart-ID"
	CartIdCookie = "cart_id"
	cartIdKey    = "cartId"
	cookieMaxAge = 7 * 24 * time.Hour
)

// cartSession resolves the cart id from the header or cookie, minting a new
// one when neither is present. The id is always echoed back.
func cartSession(c *gin.Context) {
	cartId := c.GetHeader(CartIdHeader)
	if cartId == "" {
		if cookie, err := c.Cookie(CartIdCookie); err == nil {
			cartId = cookie
		}
	}
	if cartId == "" || len(cartId) > 128 {
		cartId = uuid.NewString()
	}

	c.Set(cartIdKey, cartId)
	c.Header(CartIdHeader, cartId)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartIdCookie, cartId, int(cookieMaxAge.Seconds()), "/", "", false, true)
	c.Next()
}

func cartIdFrom(c *gin.Context) string {
	return c.GetString(cartIdKey)
}
