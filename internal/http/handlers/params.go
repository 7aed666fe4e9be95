package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter and answers 400 otherwise.
func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid ID", gin.H{"param": name})
		return 0, false
	}

	return id, true
}
