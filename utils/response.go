package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// JSONPage writes a paginated list response with prev/next page links
// the mobile client can follow directly.
func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	links := iris.Map{}
	if page > 1 {
		links["prev"] = page - 1
	}
	if page < totalPages {
		links["next"] = page + 1
	}

	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages},
		"links": links,
	})
}

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}
