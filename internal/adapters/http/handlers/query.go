package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// listQuery carries the pagination/search parameters shared by every list
// endpoint. Out-of-range values are clamped downstream, never rejected.
type listQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

func parseListQuery(c *fiber.Ctx) listQuery {
	return listQuery{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// parseBoolQuery reads an optional bool query parameter. Absent or
// unparsable values come back nil so the filter is not applied.
func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// parseUintQuery reads an optional uint query parameter, 0 when absent.
func parseUintQuery(c *fiber.Ctx, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// parseIDParam reads the :id path parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// currentUserID returns the authenticated user's ID set by the auth
// middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}
