package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePaging reads the page/size query parameters with the listing
// defaults. Out-of-range values are clamped by the services.
func parsePaging(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	return page, size
}
