package http

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/demo"
	"github.com/mrlokans/bookstore/internal/flash"
)

// --- Rendering ---

// render executes a page template with the data every page expects:
// the flash from the query string, the auth state and the CSRF field.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = currentFlash(c)
	data["Auth"] = GetAuthTemplateData(c)
	data["CSRFField"] = template.HTML(auth.CSRFTokenField(c))
	data["DemoMode"] = demo.IsDemoMode(c)
	c.HTML(status, name, data)
}

// currentFlash resolves the ?flash= code of the request, or nil.
func currentFlash(c *gin.Context) *flash.Message {
	msg, ok := flash.Lookup(c.Query(flash.QueryParam))
	if !ok {
		return nil
	}
	return &msg
}

// redirectWithFlash sends a 302 to path carrying the flash code.
func redirectWithFlash(c *gin.Context, path string, code flash.Code) {
	c.Redirect(http.StatusFound, flash.URL(path, code))
}

// --- Error Response Helpers ---

// respondNotFound renders the 404 page.
func respondNotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
}

// respondInternalError logs the error and renders the 500 page.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) [%s]: %v", context, GetRequestID(c), err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Something went wrong"})
}

// --- Parameter Parsing ---

// parseIDParam extracts a positive integer ID from URL parameters.
// Anything else is answered with the 404 page and ok == false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}

// parsePageQuery reads ?page=, falling back to 1 for missing or garbage values.
func parsePageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
