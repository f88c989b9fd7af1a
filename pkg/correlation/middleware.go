package correlation

import "github.com/gin-gonic/gin"

// Middleware honors an incoming X-Correlation-Id, generates a fresh token
// when the request enters the system untagged, and echoes it back on the
// response. Requests are the only place a missing token is expected.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HTTPHeader)
		if id == "" {
			id = Generate()
		}

		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), id))
		c.Header(HTTPHeader, id)

		c.Next()
	}
}
