// Catalog HTTP handlers: read-only listings of categories and tags.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCategories godoc
// @ID          listCategories
// @Summary     List categories
// @Tags        Catalog
// @Produce     json
//
// @Success     200  {array}   domain.Category
// @Failure     500  {object}  apierr.Response "Internal error"
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	out, err := h.catSvc.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// ListTags godoc
// @ID          listTags
// @Summary     List tags
// @Tags        Catalog
// @Produce     json
//
// @Success     200  {array}   domain.Tag
// @Failure     500  {object}  apierr.Response "Internal error"
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	out, err := h.catSvc.Tags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
