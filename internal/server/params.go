package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/repository"
)

// pathID parses :id. Malformed ids cannot name an owned record, so they are 404s.
func pathID(c *gin.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, common.NotFound(what)
	}
	return id, nil
}

func page(c *gin.Context) (repository.Page, error) {
	var p repository.Page
	var err error
	if s := c.Query("skip"); s != "" {
		if p.Skip, err = strconv.Atoi(s); err != nil || p.Skip < 0 {
			return p, common.ValidationFailed("skip must be a non-negative integer")
		}
	}
	if s := c.Query("limit"); s != "" {
		if p.Limit, err = strconv.Atoi(s); err != nil || p.Limit < 1 {
			return p, common.ValidationFailed("limit must be a positive integer")
		}
	}
	return p, nil
}

func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, common.ValidationFailedf("%s must be YYYY-MM-DD", key)
	}
	return &t, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return common.ValidationFailedf("invalid request body: %v", err)
	}
	return nil
}
