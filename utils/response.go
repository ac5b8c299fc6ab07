package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {"status":"success","data":...}. extra is merged in
// as top-level keys, e.g. notifications.
func JSONSuccess(c *gin.Context, code int, data interface{}, extra gin.H) {
	body := gin.H{"status": "success", "data": data}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}

// JSONError writes {"status":"error","error":{"code":...,"message":...}}.
func JSONError(c *gin.Context, code int, errCode, message string, extra gin.H) {
	body := gin.H{
		"status": "error",
		"error": gin.H{
			"code":    errCode,
			"message": message,
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(code, body)
}
