package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies follow the {"detail": ...} shape throughout the API.

func RespondDetail(ctx *gin.Context, status int, detail string) {
	ctx.JSON(status, gin.H{"detail": detail})
}

func RespondBadRequest(ctx *gin.Context, detail string, fields interface{}) {
	if fields == nil {
		RespondDetail(ctx, http.StatusBadRequest, detail)
		return
	}

	ctx.JSON(http.StatusBadRequest, gin.H{
		"detail": detail,
		"fields": fields,
	})
}

// RespondUnauthorized always carries the bearer challenge header.
func RespondUnauthorized(ctx *gin.Context, detail string) {
	ctx.Header("WWW-Authenticate", "Bearer")
	RespondDetail(ctx, http.StatusUnauthorized, detail)
}

func RespondForbidden(ctx *gin.Context) {
	RespondDetail(ctx, http.StatusForbidden, "Forbidden")
}

func RespondNotFound(ctx *gin.Context, detail string) {
	RespondDetail(ctx, http.StatusNotFound, detail)
}

func RespondInternal(ctx *gin.Context, detail string) {
	RespondDetail(ctx, http.StatusInternalServerError, detail)
}
