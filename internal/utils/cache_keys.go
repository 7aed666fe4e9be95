package utils

import (
	"strconv"
	"strings"

	"github.com/geocoder89/petmarket/internal/domain/pet"
)

// BuildPetsListCacheKey maps a normalized filter to a stable cache key. Two
// query strings that resolve to the same filter share one entry.
func BuildPetsListCacheKey(f pet.ListFilter) string {
	c := ""
	if f.CategoryID != nil {
		c = strconv.FormatInt(*f.CategoryID, 10)
	}
	r := ""
	if f.Region != nil {
		r = strings.TrimSpace(*f.Region)
	}
	n := ""
	if f.Name != nil {
		n = strings.ToLower(strings.TrimSpace(*f.Name))
	}

	return "pets:list:v1:min=" + strconv.FormatFloat(f.MinPrice, 'f', -1, 64) +
		":max=" + strconv.FormatFloat(f.MaxPrice, 'f', -1, 64) +
		":cat=" + c +
		":region=" + strconv.Quote(r) +
		":name=" + strconv.Quote(n) +
		":page=" + strconv.Itoa(f.Page) +
		":limit=" + strconv.Itoa(f.Limit)
}
