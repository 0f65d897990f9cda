package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// IDParam parses a positive numeric path parameter. It writes a 400 and
// returns false when the value is malformed.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
