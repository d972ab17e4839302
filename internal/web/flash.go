package web

import "github.com/gin-gonic/gin"

// flashCookie carries a one-shot message to the next rendered page; the front
// end reads and clears it.
const flashCookie = "rollcall_flash"

// SetFlash stores a level|message pair in the flash cookie.
func SetFlash(c *gin.Context, level, message string, secure bool) {
	c.SetCookie(flashCookie, level+"|"+message, 60, "/", "", secure, false)
}
