package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClampInt — v в пределах [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Page — окно списка из query ?limit=&offset=.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage — нечисловые и отрицательные значения заменяются умолчаниями, limit ∈ [1, maxLimit].
func ParsePage(c *gin.Context, defaultLimit, maxLimit int) Page {
	p := Page{Limit: ClampInt(defaultLimit, 1, maxLimit)}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		p.Limit = ClampInt(v, 1, maxLimit)
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		p.Offset = v
	}
	return p
}

// Bounds — границы среза [start:end) для списка длины total; за концом списка — пустое окно.
func (p Page) Bounds(total int) (start, end int) {
	start = ClampInt(p.Offset, 0, total)
	end = ClampInt(start+p.Limit, start, total)
	return start, end
}
