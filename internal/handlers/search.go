package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/shremyagupta/simple-ecommerce/internal/service/search"
	"github.com/shremyagupta/simple-ecommerce/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return errorResponse(c, http.StatusBadRequest, "q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
