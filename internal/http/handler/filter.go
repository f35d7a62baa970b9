package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"posadmin/internal/query"
)

// parseFilterSpec reads the shared listing query parameters. Absent or
// unparsable numeric values fall back to the zero value so the pipeline
// applies its own defaults; download toggles the unpaged export path.
func parseFilterSpec(c *fiber.Ctx) (query.Spec, bool) {
	spec := query.Spec{
		TextField: queryInt(c, "numFilter"),
		Text:      c.Query("textFilter"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Sort:      c.Query("sort"),
		Desc:      c.Query("order") == "desc",
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
	}

	if raw := c.Query("stateFilter"); raw != "" {
		if state, err := strconv.Atoi(raw); err == nil {
			spec.State = &state
		}
	}

	download := c.Query("download") == "true"
	spec.Export = download
	return spec, download
}

func queryInt(c *fiber.Ctx, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
