package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// pageResponse is the paginated list shape used by every list endpoint
type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func newPage[T any](content []T, total int64, page, size int) pageResponse[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return pageResponse[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

func parsePagination(c *gin.Context, defaultSize int) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil || size < 1 {
		size = defaultSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}
